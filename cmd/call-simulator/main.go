// call-simulator sends a synthetic call-platform session event to the IVR
// service over NATS and prints the action list it replies with. It stands in
// for the call-control platform during development.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Flag descriptions.
const (
	flagURLDesc     = "NATS server URL"
	flagSubjectDesc = "Subject the IVR service listens on"
	flagEventDesc   = "Invocation event type to send"
	flagFromDesc    = "Calling phone number"
	flagCallIDDesc  = "Call id (defaults to a random id)"
	flagTimeoutDesc = "Reply timeout"
)

// Flag names.
const (
	flagURL     = "url"
	flagSubject = "subject"
	flagEvent   = "event"
	flagFrom    = "from"
	flagCallID  = "call-id"
	flagTimeout = "timeout"
)

// Flag defaults.
const (
	defaultSubject = "calls.session.events"
	defaultEvent   = "NEW_INBOUND_CALL"
	defaultFrom    = "+15550100"
	defaultTimeout = 10 * time.Second
)

// simFlags holds the parsed command-line flag values.
type simFlags struct {
	url     string
	subject string
	event   string
	from    string
	callID  string
	timeout time.Duration
}

// sessionEvent mirrors the platform's inbound event envelope.
type sessionEvent struct {
	InvocationEventType string `json:"InvocationEventType"`
	CallDetails         struct {
		Participants []participant `json:"Participants"`
	} `json:"CallDetails"`
}

type participant struct {
	From        string `json:"From"`
	CallID      string `json:"CallId"`
	StartTimeMs int64  `json:"StartTimeInMilliseconds"`
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()

	natsConnection, err := nats.Connect(flags.url)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", flags.url, err)
	}
	defer natsConnection.Close()

	payload, err := buildEvent(flags)
	if err != nil {
		return err
	}

	reply, err := natsConnection.Request(flags.subject, payload, flags.timeout)
	if err != nil {
		return fmt.Errorf("request on subject %s failed: %w", flags.subject, err)
	}

	fmt.Printf("%s\n", reply.Data)

	return nil
}

func parseFlags() simFlags {
	var flags simFlags

	flag.StringVar(&flags.url, flagURL, nats.DefaultURL, flagURLDesc)
	flag.StringVar(&flags.subject, flagSubject, defaultSubject, flagSubjectDesc)
	flag.StringVar(&flags.event, flagEvent, defaultEvent, flagEventDesc)
	flag.StringVar(&flags.from, flagFrom, defaultFrom, flagFromDesc)
	flag.StringVar(&flags.callID, flagCallID, "", flagCallIDDesc)
	flag.DurationVar(&flags.timeout, flagTimeout, defaultTimeout, flagTimeoutDesc)
	flag.Parse()

	if flags.callID == "" {
		flags.callID = uuid.NewString()
	}

	return flags
}

func buildEvent(flags simFlags) ([]byte, error) {
	var event sessionEvent

	event.InvocationEventType = flags.event
	event.CallDetails.Participants = []participant{
		{
			From:        flags.from,
			CallID:      flags.callID,
			StartTimeMs: time.Now().UnixMilli(),
		},
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session event: %w", err)
	}

	return payload, nil
}
