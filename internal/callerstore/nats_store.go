// Package callerstore provides a NATS-based implementation of the CallerStore
// interface, persisting first-contact caller records in a JetStream key-value
// bucket.
package callerstore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/book-expert/ivr-service/internal/core"
)

// NatsCallerStore implements the core.CallerStore interface using a NATS
// JetStream key-value bucket.
type NatsCallerStore struct {
	jetstreamContext nats.JetStreamContext
	bucket           string
	store            nats.KeyValue
}

// New creates and initializes a new NatsCallerStore.
func New(jetstreamContext nats.JetStreamContext, bucketName string) (*NatsCallerStore, error) {
	// Use a "create-first" approach, binding when the bucket exists.
	store, err := jetstreamContext.CreateKeyValue(&nats.KeyValueConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Caller records for the %s bucket.", bucketName),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		if errors.Is(err, jetstream.ErrBucketExists) {
			store, err = jetstreamContext.KeyValue(bucketName)
			if err != nil {
				return nil, fmt.Errorf("failed to bind to existing key-value bucket '%s': %w", bucketName, err)
			}
		} else {
			return nil, fmt.Errorf("failed to create key-value bucket '%s': %w", bucketName, err)
		}
	}

	return &NatsCallerStore{
		jetstreamContext: jetstreamContext,
		bucket:           bucketName,
		store:            store,
	}, nil
}

// Fetch retrieves the record for a phone number. It returns
// core.ErrCallerNotFound when the number has never been seen.
func (n *NatsCallerStore) Fetch(_ context.Context, phoneNumber string) (*core.CallerRecord, error) {
	entry, err := n.store.Get(keyFor(phoneNumber))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return nil, core.ErrCallerNotFound
		}

		return nil, fmt.Errorf("failed to get caller record for '%s': %w", phoneNumber, err)
	}

	var record core.CallerRecord

	err = json.Unmarshal(entry.Value(), &record)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal caller record for '%s': %w", phoneNumber, err)
	}

	return &record, nil
}

// Create inserts a first-contact record. The key-value create is conditional,
// so two racing first contacts from the same number resolve to one stored
// record and one core.ErrCallerExists.
func (n *NatsCallerStore) Create(_ context.Context, record core.CallerRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal caller record for '%s': %w", record.PhoneNumber, err)
	}

	_, err = n.store.Create(keyFor(record.PhoneNumber), data)
	if err != nil {
		if errors.Is(err, nats.ErrKeyExists) {
			return core.ErrCallerExists
		}

		return fmt.Errorf("failed to create caller record for '%s': %w", record.PhoneNumber, err)
	}

	return nil
}

// keyFor maps a phone number onto the key-value key alphabet. E.164 numbers
// carry a leading '+', which is not a legal key character, so the number is
// hex-encoded.
func keyFor(phoneNumber string) string {
	return hex.EncodeToString([]byte(phoneNumber))
}
