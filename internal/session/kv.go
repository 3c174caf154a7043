package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// KV keeps session flags in a NATS JetStream key-value bucket, so several
// servers can share sessions. Keys are {session}.{flag}.
type KV struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
}

// NewKV connects to url and opens (or creates) bucket. ttl bounds how long a
// session's flags live; zero keeps them forever.
func NewKV(ctx context.Context, url, bucket string, ttl time.Duration) (*KV, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategorySession, "failed to connect to NATS").WithContext("url", url).Build()
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, derrors.WrapError(err, derrors.CategorySession, "failed to create JetStream context").Build()
	}

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "pageloader session flags",
			History:     1,
			TTL:         ttl,
		})
		if err != nil {
			conn.Close()
			return nil, derrors.WrapError(err, derrors.CategorySession, "failed to create KV bucket").WithContext("bucket", bucket).Build()
		}
		slog.Info("Created KV bucket for session flags", "bucket", bucket)
	}
	return &KV{conn: conn, kv: kv}, nil
}

func (k *KV) Session(id string) Store { return kvSession{kv: k.kv, id: id} }

// Close closes the NATS connection.
func (k *KV) Close() error {
	if k.conn != nil {
		k.conn.Close()
	}
	return nil
}

type kvSession struct {
	kv jetstream.KeyValue
	id string
}

func (s kvSession) key(flag string) string { return s.id + "." + flag }

func (s kvSession) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.kv.Get(ctx, s.key(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get flag %s: %w", key, err)
	}
	return string(entry.Value()), true, nil
}

func (s kvSession) Set(ctx context.Context, key, val string) error {
	if _, err := s.kv.Put(ctx, s.key(key), []byte(val)); err != nil {
		return fmt.Errorf("put flag %s: %w", key, err)
	}
	return nil
}
