// Package worker_test tests the NATS worker for the IVR service.
package worker_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/ivr-service/internal/session"
	"github.com/book-expert/ivr-service/internal/worker"
)

// mockEventHandler is a mock implementation of the EventHandler interface.
type mockEventHandler struct {
	lastEvent *session.Event
	response  session.Response
}

func (m *mockEventHandler) HandleEvent(_ context.Context, event *session.Event) session.Response {
	m.lastEvent = event

	return m.response
}

func createTestNatsClient(t *testing.T) (*nats.Conn, func()) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	server := test.RunServer(&opts)

	natsConnection, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	cleanup := func() {
		server.Shutdown()
		natsConnection.Close()
	}

	return natsConnection, cleanup
}

func setupTest(t *testing.T, response session.Response) (*mockEventHandler, *nats.Conn, context.CancelFunc, chan error) {
	t.Helper()

	mockHandler := &mockEventHandler{
		lastEvent: nil,
		response:  response,
	}

	natsConnection, natsCleanup := createTestNatsClient(t)
	t.Cleanup(natsCleanup)

	testLogger, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	workerInstance, err := worker.NewNatsWorker(
		natsConnection, "session.events", mockHandler, testLogger,
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- workerInstance.Run(ctx)
	}()

	// Wait until the worker's subscription is registered and flushed to the
	// server so requests sent by the test cannot race the subscribe.
	require.Eventually(t, func() bool {
		return natsConnection.NumSubscriptions() > 0
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, natsConnection.Flush())

	return mockHandler, natsConnection, cancel, errChan
}

func TestWorker_RepliesWithHandlerResponse(t *testing.T) {
	t.Parallel()

	mockHandler, natsConnection, cancel, errChan := setupTest(
		t, session.NewResponse(session.NewHangupAction()),
	)
	defer cancel()

	payload := []byte(`{"InvocationEventType": "ACTION_SUCCESSFUL"}`)

	replyMsg, err := natsConnection.Request("session.events", payload, 5*time.Second)
	require.NoError(t, err, "Request should succeed and receive a reply")

	require.NotNil(t, mockHandler.lastEvent)
	assert.Equal(t, session.KindActionSuccessful, mockHandler.lastEvent.Kind)

	var decoded struct {
		SchemaVersion string `json:"SchemaVersion"`
		Actions       []struct {
			Type string `json:"Type"`
		} `json:"Actions"`
	}

	require.NoError(t, json.Unmarshal(replyMsg.Data, &decoded))
	assert.Equal(t, "1.0", decoded.SchemaVersion)
	require.Len(t, decoded.Actions, 1)
	assert.Equal(t, "Hangup", decoded.Actions[0].Type)

	cancel()

	shutdownErr := <-errChan
	assert.NoError(t, shutdownErr, "worker.Run should not error on graceful shutdown")
}

func TestWorker_MalformedPayloadGetsFailSafeHangup(t *testing.T) {
	t.Parallel()

	mockHandler, natsConnection, cancel, _ := setupTest(t, session.NewResponse())
	defer cancel()

	replyMsg, err := natsConnection.Request("session.events", []byte(`{broken`), 5*time.Second)
	require.NoError(t, err)

	// The handler is never consulted for unparseable payloads.
	assert.Nil(t, mockHandler.lastEvent)

	var decoded struct {
		Actions []struct {
			Type string `json:"Type"`
		} `json:"Actions"`
	}

	require.NoError(t, json.Unmarshal(replyMsg.Data, &decoded))
	require.Len(t, decoded.Actions, 1)
	assert.Equal(t, "Hangup", decoded.Actions[0].Type)
}

func TestWorker_EmptyActionListMarshalsAsArray(t *testing.T) {
	t.Parallel()

	_, natsConnection, cancel, _ := setupTest(t, session.NewResponse())
	defer cancel()

	payload := []byte(`{"InvocationEventType": "HANGUP"}`)

	replyMsg, err := natsConnection.Request("session.events", payload, 5*time.Second)
	require.NoError(t, err)

	assert.JSONEq(t, `{"SchemaVersion": "1.0", "Actions": []}`, string(replyMsg.Data))
}
