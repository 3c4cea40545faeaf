// Package sessionstore keeps sessions in redis. Each session is one key whose
// TTL ends at the session expiry, so redis drops it without a sweeper.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/domain/model/principal"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dormeal:session:"

type record struct {
	PrincipalID kernel.UUID `json:"principalId"`
	Role        string      `json:"role"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

type Store struct {
	client *redis.Client
	now    func() time.Time
}

func New(client *redis.Client) (*Store, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &Store{client: client, now: time.Now}, nil
}

func key(id string) string {
	return keyPrefix + id
}

func (s *Store) Save(ctx context.Context, session ports.Session) error {
	if session.ID == "" {
		return errs.NewValueIsRequiredError("session id")
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("expiresAt", errors.New("session already expired"))
	}

	payload, err := json.Marshal(record{
		PrincipalID: session.Principal.ID(),
		Role:        session.Principal.Role().String(),
		ExpiresAt:   session.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (ports.Session, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.Session{}, errs.NewObjectNotFoundError("session", id)
	}
	if err != nil {
		return ports.Session{}, fmt.Errorf("get session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return ports.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if !s.now().Before(rec.ExpiresAt) {
		return ports.Session{}, errs.NewObjectNotFoundError("session", id)
	}
	role, err := principal.ParseRole(rec.Role)
	if err != nil {
		return ports.Session{}, err
	}
	p, err := principal.New(rec.PrincipalID, role)
	if err != nil {
		return ports.Session{}, err
	}
	return ports.Session{ID: id, Principal: p, ExpiresAt: rec.ExpiresAt}, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
