package store

import (
	"context"
	"fmt"
)

// Sealer encrypts values before they reach a backend. pkg/cryptox.Sealer
// satisfies it.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// Sealed wraps a Store so every value is encrypted at rest. Keys are stored
// in the clear.
type Sealed struct {
	inner  Store
	sealer Sealer
}

var _ Store = (*Sealed)(nil)

func NewSealed(inner Store, sealer Sealer) *Sealed {
	return &Sealed{inner: inner, sealer: sealer}
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}

	value, err := s.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", key, err)
	}
	return value, nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *Sealed) Delete(ctx context.Context, key string) error { return s.inner.Delete(ctx, key) }
func (s *Sealed) Ping(ctx context.Context) error               { return s.inner.Ping(ctx) }
func (s *Sealed) Close() error                                 { return s.inner.Close() }
