// Package callerstore_test tests the NATS caller record store implementation.
package callerstore_test

import (
	"context"
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/ivr-service/internal/callerstore"
	"github.com/book-expert/ivr-service/internal/core"
)

// StartTestServer starts an in-memory NATS server for testing purposes.
func StartTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	// Isolate JetStream state per test; the default store directory is shared
	// on disk and leaks records across test runs.
	opts.StoreDir = t.TempDir()
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, natsConnection
}

func newTestStore(t *testing.T, bucketName string) *callerstore.NatsCallerStore {
	t.Helper()

	natsServer, natsConnection := StartTestServer(t)
	t.Cleanup(func() {
		natsServer.Shutdown()
		natsConnection.Close()
	})

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := callerstore.New(jetstreamContext, bucketName)
	require.NoError(t, err)

	return store
}

func TestNatsCallerStore_CreateFetch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, "caller-records")
	ctx := context.Background()

	record := core.CallerRecord{
		PhoneNumber: "+15550100",
		SessionID:   "call-1234",
		StartTimeMs: 1700000000000,
	}

	err := store.Create(ctx, record)
	require.NoError(t, err)

	fetched, err := store.Fetch(ctx, "+15550100")
	require.NoError(t, err)
	assert.Equal(t, record, *fetched)
}

func TestNatsCallerStore_FetchUnknownNumber(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, "caller-records-unknown")

	_, err := store.Fetch(context.Background(), "+15559999")
	require.ErrorIs(t, err, core.ErrCallerNotFound)
}

func TestNatsCallerStore_CreateIsConditional(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, "caller-records-race")
	ctx := context.Background()

	first := core.CallerRecord{
		PhoneNumber: "+15550100",
		SessionID:   "call-first",
		StartTimeMs: 1700000000000,
	}
	second := core.CallerRecord{
		PhoneNumber: "+15550100",
		SessionID:   "call-second",
		StartTimeMs: 1700000005000,
	}

	require.NoError(t, store.Create(ctx, first))

	// The losing side of a first-contact race gets ErrCallerExists and the
	// original record stays untouched.
	err := store.Create(ctx, second)
	require.ErrorIs(t, err, core.ErrCallerExists)

	fetched, err := store.Fetch(ctx, "+15550100")
	require.NoError(t, err)
	assert.Equal(t, "call-first", fetched.SessionID)
}
