// Package session models the wire contract with the call-control platform:
// the inbound session events it pushes and the action lists returned to it.
package session

import (
	"encoding/json"
	"fmt"
)

// Kind classifies an inbound session event.
type Kind string

// The event kinds the handler acts on. Anything else parses as
// KindUnrecognized with the raw type preserved.
const (
	KindNewInboundCall   Kind = "NEW_INBOUND_CALL"
	KindCallAnswered     Kind = "CALL_ANSWERED"
	KindActionSuccessful Kind = "ACTION_SUCCESSFUL"
	KindHangup           Kind = "HANGUP"
	KindUnrecognized     Kind = "UNRECOGNIZED"
)

// Participant is one leg of the call as reported by the platform.
type Participant struct {
	From        string `json:"From"`
	CallID      string `json:"CallId"`
	StartTimeMs int64  `json:"StartTimeInMilliseconds"`
}

// Event is the parsed form of one platform notification. It is read-only and
// not retained past the handling of a single event.
type Event struct {
	Kind         Kind
	RawKind      string
	Participants []Participant
}

// FirstParticipant returns the initiating leg of the call, when present.
func (e *Event) FirstParticipant() (Participant, bool) {
	if len(e.Participants) == 0 {
		return Participant{}, false
	}

	return e.Participants[0], true
}

// envelope is the loosely-shaped inbound JSON; it is decoded exactly once,
// here, into the closed Event union.
type envelope struct {
	InvocationEventType string `json:"InvocationEventType"`
	CallDetails         struct {
		Participants []Participant `json:"Participants"`
	} `json:"CallDetails"`
}

// ParseEvent validates and classifies a raw platform notification.
func ParseEvent(data []byte) (*Event, error) {
	var env envelope

	err := json.Unmarshal(data, &env)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session event: %w", err)
	}

	event := &Event{
		Kind:         classifyKind(env.InvocationEventType),
		RawKind:      env.InvocationEventType,
		Participants: env.CallDetails.Participants,
	}

	return event, nil
}

func classifyKind(raw string) Kind {
	switch Kind(raw) {
	case KindNewInboundCall, KindCallAnswered, KindActionSuccessful, KindHangup:
		return Kind(raw)
	default:
		return KindUnrecognized
	}
}
