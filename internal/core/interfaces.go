// Package core defines the business types and collaborator interfaces for the
// IVR greeting service.
package core

import (
	"context"
	"errors"
)

// Static errors shared by the collaborator implementations.
var (
	// ErrCallerNotFound indicates that no record exists for a phone number.
	ErrCallerNotFound = errors.New("caller record not found")
	// ErrCallerExists indicates that a record for the phone number was
	// already written, typically by a concurrent first contact.
	ErrCallerExists = errors.New("caller record already exists")
)

// CallerRecord is the persisted fact that a phone number has reached this
// system before. It is written once, on first contact, and never mutated.
type CallerRecord struct {
	PhoneNumber string `json:"phoneNumber"`
	SessionID   string `json:"sessionId"`
	StartTimeMs int64  `json:"startTimeMs"`
}

// CallerStore defines the interface for the external keyed record store.
type CallerStore interface {
	// Fetch returns the record for a phone number, or ErrCallerNotFound.
	Fetch(ctx context.Context, phoneNumber string) (*CallerRecord, error)
	// Create inserts a first-contact record. It returns ErrCallerExists
	// when a record for the number is already present.
	Create(ctx context.Context, record CallerRecord) error
}

// ObjectStore defines the interface for the external blob store holding the
// synthesized audio containers.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// Text types accepted by the synthesis service.
const (
	// TextTypeSSML marks synthesis text as speech synthesis markup.
	TextTypeSSML = "ssml"
	// TextTypePlain marks synthesis text as plain text.
	TextTypePlain = "text"
)

// SynthesisRequest holds the parameters for one speech-synthesis call.
type SynthesisRequest struct {
	Text         string
	TextType     string
	Voice        string
	Language     string
	SampleRateHz int
}

// Synthesizer defines the interface for the external speech-synthesis
// service. Synthesize returns raw single-channel linear-PCM sample bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error)
}
