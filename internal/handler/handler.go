// Package handler implements the call session handler: it classifies each
// inbound session event and produces the action list returned to the call
// platform, owning the welcome-message workflow for new inbound calls.
package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"

	"github.com/book-expert/ivr-service/internal/core"
	"github.com/book-expert/ivr-service/internal/phrase"
	"github.com/book-expert/ivr-service/internal/session"
	"github.com/book-expert/ivr-service/internal/wav"
)

// objectKeySuffix is appended to the call id to form the storage key of the
// greeting audio.
const objectKeySuffix = "-welcome.wav"

// contentTypeWAV is the MIME type recorded on uploaded containers.
const contentTypeWAV = "audio/wav"

// Container parameters for the synthesized greeting: the synthesis service
// returns mono 16-bit linear PCM.
const (
	greetingChannelCount   = 1
	greetingBytesPerSample = 2
)

// Config holds the fixed parameters of the handler. The timezone is explicit
// so the spoken time does not depend on the host clock configuration.
type Config struct {
	AudioBucket  string
	Voice        string
	Language     string
	SampleRateHz int
	Location     *time.Location
}

// Handler is the call session handler. It holds no per-call state; every
// event is handled using only the externally persisted caller history.
type Handler struct {
	callers     core.CallerStore
	objects     core.ObjectStore
	synthesizer core.Synthesizer
	cfg         Config
	now         func() time.Time
	log         *logger.Logger
}

// New creates a handler wired to the three external collaborators.
func New(
	callers core.CallerStore,
	objects core.ObjectStore,
	synthesizer core.Synthesizer,
	cfg Config,
	log *logger.Logger,
) *Handler {
	return NewWithClock(callers, objects, synthesizer, cfg, time.Now, log)
}

// NewWithClock creates a handler with an injected wall clock, so tests can
// pin the spoken time.
func NewWithClock(
	callers core.CallerStore,
	objects core.ObjectStore,
	synthesizer core.Synthesizer,
	cfg Config,
	now func() time.Time,
	log *logger.Logger,
) *Handler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Handler{
		callers:     callers,
		objects:     objects,
		synthesizer: synthesizer,
		cfg:         cfg,
		now:         now,
		log:         log,
	}
}

// HandleEvent classifies one session event and returns the response for the
// platform. Every path produces a structured response; nothing here is fatal.
func (h *Handler) HandleEvent(ctx context.Context, event *session.Event) session.Response {
	switch event.Kind {
	case session.KindNewInboundCall:
		return session.NewResponse(h.greet(ctx, event)...)
	case session.KindActionSuccessful:
		// Greeting playback finished; end the call.
		return session.NewResponse(session.NewHangupAction())
	case session.KindCallAnswered, session.KindHangup:
		return session.NewResponse()
	case session.KindUnrecognized:
		h.log.Warn("Unrecognized event type '%s', hanging up", event.RawKind)

		return session.NewResponse(session.NewHangupAction())
	default:
		return session.NewResponse(session.NewHangupAction())
	}
}

// greet runs the welcome-message workflow for a new inbound call and returns
// the action list. External failures degrade to best effort: the playback
// action is returned even when synthesis or storage failed.
func (h *Handler) greet(ctx context.Context, event *session.Event) []session.Action {
	participant, ok := event.FirstParticipant()
	if !ok || participant.From == "" {
		h.log.Warn("New inbound call without a caller number, hanging up")

		return []session.Action{session.NewHangupAction()}
	}

	now := h.now().In(h.cfg.Location)
	hour, minute := now.Hour(), now.Minute()

	var text string
	if h.isKnownCaller(ctx, participant.From) {
		text = phrase.WelcomeBack(hour, minute)
	} else {
		text = phrase.FirstContact(participant.From, hour, minute)
		h.recordFirstContact(ctx, participant)
	}

	key := greetingObjectKey(participant.CallID)

	err := h.synthesizeAndStore(ctx, text, key)
	if err != nil {
		h.log.Error("Failed to prepare greeting audio for key '%s': %v", key, err)
	}

	return []session.Action{session.NewPlayAudioAction(h.cfg.AudioBucket, key)}
}

// isKnownCaller reports whether a record exists for the number. A store
// failure is logged and treated as "never seen"; the call must go on.
func (h *Handler) isKnownCaller(ctx context.Context, phoneNumber string) bool {
	record, err := h.callers.Fetch(ctx, phoneNumber)
	if err != nil {
		if !errors.Is(err, core.ErrCallerNotFound) {
			h.log.Error("Failed to look up caller '%s': %v", phoneNumber, err)
		}

		return false
	}

	return record != nil
}

// recordFirstContact inserts the caller record best-effort. A concurrent
// first contact losing the conditional create is harmless; both writes carry
// the same facts.
func (h *Handler) recordFirstContact(ctx context.Context, participant session.Participant) {
	err := h.callers.Create(ctx, core.CallerRecord{
		PhoneNumber: participant.From,
		SessionID:   participant.CallID,
		StartTimeMs: participant.StartTimeMs,
	})
	if err != nil {
		if errors.Is(err, core.ErrCallerExists) {
			h.log.Info("Caller record for '%s' already present", participant.From)

			return
		}

		h.log.Error("Failed to store caller record for '%s': %v", participant.From, err)
	}
}

// synthesizeAndStore turns the greeting phrase into a stored, playable audio
// object: one synthesis attempt, container framing, one upload attempt.
func (h *Handler) synthesizeAndStore(ctx context.Context, text, key string) error {
	samples, err := h.synthesizer.Synthesize(ctx, core.SynthesisRequest{
		Text:         text,
		TextType:     core.TextTypeSSML,
		Voice:        h.cfg.Voice,
		Language:     h.cfg.Language,
		SampleRateHz: h.cfg.SampleRateHz,
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize greeting: %w", err)
	}

	container := wav.Build(
		samples,
		h.cfg.SampleRateHz,
		greetingChannelCount,
		greetingBytesPerSample,
	)

	err = h.objects.Upload(ctx, key, container, contentTypeWAV)
	if err != nil {
		return fmt.Errorf("failed to upload greeting audio '%s': %w", key, err)
	}

	return nil
}

// greetingObjectKey derives the storage key from the call id. Events without
// a call id fall back to a random key so concurrent calls never collide.
func greetingObjectKey(callID string) string {
	if callID == "" {
		callID = uuid.NewString()
	}

	return callID + objectKeySuffix
}
