// Package phrase composes the SSML greeting phrases spoken to callers,
// including the English word form of the current hour and minute and the
// digit-by-digit reading of a calling number.
package phrase

import (
	"strconv"
	"strings"
)

const (
	// numberBaseTen represents the base for the decimal number system.
	numberBaseTen = 10
	// numberBaseTwenty represents the boundary for teen numbers.
	numberBaseTwenty = 20
	// maxSpokenNumber is the largest value Words converts; hours and
	// minutes never exceed it.
	maxSpokenNumber = 99
)

// Phrase fragments shared by the two greetings.
const (
	ssmlOpen       = "<speak>"
	ssmlClose      = "</speak>"
	ssmlBreak      = "<break/>"
	timePrefix     = "The time is "
	timeSuffix     = " U C T"
	goodbye        = ".  Goodbye!"
	welcomeBack    = "Welcome back!"
	welcomeFirst   = "Welcome.  You are calling from "
	digitSeparator = " "
)

type numberConverter struct {
	ones  []string
	teens []string
	tens  []string
}

func newNumberConverter() *numberConverter {
	return &numberConverter{
		ones: []string{
			"", "one", "two", "three", "four", "five",
			"six", "seven", "eight", "nine",
		},
		teens: []string{
			"ten", "eleven", "twelve", "thirteen", "fourteen",
			"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
		},
		tens: []string{
			"", "", "twenty", "thirty", "forty", "fifty",
			"sixty", "seventy", "eighty", "ninety",
		},
	}
}

func (nc *numberConverter) convertUnderHundred(num int) string {
	if num < numberBaseTen {
		return nc.ones[num]
	}

	if num < numberBaseTwenty {
		return nc.teens[num-numberBaseTen]
	}

	result := nc.tens[num/numberBaseTen]
	if num%numberBaseTen > 0 {
		result += " " + nc.ones[num%numberBaseTen]
	}

	return result
}

// Words converts an integer in [0, 99] into its English word representation.
// Values outside that range fall back to their decimal digits.
func Words(number int) string {
	if number < 0 || number > maxSpokenNumber {
		return strconv.Itoa(number)
	}

	if number == 0 {
		return "zero"
	}

	return newNumberConverter().convertUnderHundred(number)
}

// SpellDigits renders a phone number character by character, separated by
// spaces, so the synthesizer reads it digit by digit.
func SpellDigits(number string) string {
	var builder strings.Builder

	for _, char := range number {
		builder.WriteRune(char)
		builder.WriteString(digitSeparator)
	}

	return builder.String()
}

// WelcomeBack composes the greeting for a caller with an existing record.
func WelcomeBack(hour, minute int) string {
	return ssmlOpen + welcomeBack + ssmlBreak +
		spokenTime(hour, minute) + goodbye + ssmlClose
}

// FirstContact composes the greeting for a never-seen caller, reading the
// calling number back digit by digit.
func FirstContact(from string, hour, minute int) string {
	return ssmlOpen + welcomeFirst + SpellDigits(from) + ssmlBreak +
		spokenTime(hour, minute) + goodbye + ssmlClose
}

func spokenTime(hour, minute int) string {
	return timePrefix + Words(hour) + " " + Words(minute) + timeSuffix + ssmlBreak
}
