package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store persists one cart per user.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, userID uuid.UUID, cart *Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type cartBackend interface {
	SaveCart(ctx context.Context, userID string, payload []byte, ttl time.Duration) error
	LoadCart(ctx context.Context, userID string) ([]byte, bool, error)
	DeleteCart(ctx context.Context, userID string) error
}

type redisStore struct {
	backend cartBackend
	ttl     time.Duration
}

// NewRedisStore stores carts as JSON documents that expire after ttl of inactivity.
func NewRedisStore(backend cartBackend, ttl time.Duration) (Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("cart backend required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &redisStore{backend: backend, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	payload, found, err := s.backend.LoadCart(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	cart := &Cart{}
	if !found {
		return cart, nil
	}
	if err := json.Unmarshal(payload, cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	if cart == nil || cart.IsEmpty() {
		return s.Delete(ctx, userID)
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.backend.SaveCart(ctx, userID.String(), payload, s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.backend.DeleteCart(ctx, userID.String()); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
