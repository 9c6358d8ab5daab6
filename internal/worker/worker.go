// Package worker provides the NATS worker that receives session events from
// the call-control platform and replies with the handler's action list.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/ivr-service/internal/session"
)

const handleMessageTimeout = 30 * time.Second

// EventHandler decides the response for one parsed session event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *session.Event) session.Response
}

// NatsWorker listens for session events on a NATS subject and replies with
// the action list for each one.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	handler        EventHandler
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	handler EventHandler,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		handler:        handler,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for session events.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	response := w.decide(ctx, msg.Data)

	responseData, err := json.Marshal(response)
	if err != nil {
		w.log.Error("Failed to marshal response: %v", err)

		return
	}

	err = msg.Respond(responseData)
	if err != nil {
		w.log.Error("Failed to publish response: %v", err)
	}
}

// decide parses the event and delegates to the handler. A payload that does
// not parse gets the fail-safe hangup response, mirroring how the handler
// treats unrecognized event kinds.
func (w *NatsWorker) decide(ctx context.Context, data []byte) session.Response {
	event, err := session.ParseEvent(data)
	if err != nil {
		w.log.Error("Failed to parse session event: %v", err)

		return session.NewResponse(session.NewHangupAction())
	}

	return w.handler.HandleEvent(ctx, event)
}
