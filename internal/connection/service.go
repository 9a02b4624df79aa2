package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/postdeck/postdeck/internal/cache"
	"github.com/postdeck/postdeck/internal/platform"
)

// Service errors.
var (
	// ErrInvalidCode indicates the authorization code was missing or rejected.
	ErrInvalidCode = errors.New("invalid authorization code")
	// ErrNotConnected indicates the platform has no active connection.
	ErrNotConnected = errors.New("platform not connected")
	// ErrStoreNotConfigured indicates no token store is available.
	ErrStoreNotConfigured = errors.New("connection store not configured")
)

// TokenStore persists connection token hashes per platform.
// Satisfied by *cache.Cache.
type TokenStore interface {
	GetConnectionToken(ctx context.Context, pl platform.Platform) (string, error)
	SetConnectionToken(ctx context.Context, pl platform.Platform, hash string) error
	DeleteConnectionToken(ctx context.Context, pl platform.Platform) error
}

// Service manages platform account connections. Real OAuth flows are
// out of scope; Connect simulates the code exchange and issues an
// opaque token whose hash is the only thing persisted.
type Service struct {
	store  TokenStore
	logger *slog.Logger
}

// NewService creates a connection service. store may be nil, in which
// case all operations return ErrStoreNotConfigured.
func NewService(store TokenStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Connect exchanges an authorization code for a connection token.
// The plaintext token is returned once; only its hash is stored.
// Reconnecting an already connected platform replaces the token.
func (s *Service) Connect(ctx context.Context, pl platform.Platform, code string) (string, error) {
	if s.store == nil {
		return "", ErrStoreNotConfigured
	}
	if !pl.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, pl)
	}
	if strings.TrimSpace(code) == "" {
		return "", ErrInvalidCode
	}

	token, err := GenerateToken(pl)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.store.SetConnectionToken(ctx, pl, token.Hash); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	s.logger.Info("platform connected",
		slog.String("platform", string(pl)),
		slog.String("connection_id", token.ID))

	return token.Plaintext, nil
}

// Disconnect removes the platform connection. Disconnecting a platform
// that is not connected is not an error.
func (s *Service) Disconnect(ctx context.Context, pl platform.Platform) error {
	if s.store == nil {
		return ErrStoreNotConfigured
	}
	if !pl.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, pl)
	}

	if err := s.store.DeleteConnectionToken(ctx, pl); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	s.logger.Info("platform disconnected", slog.String("platform", string(pl)))
	return nil
}

// IsConnected reports whether the platform has a stored connection.
func (s *Service) IsConnected(ctx context.Context, pl platform.Platform) (bool, error) {
	if s.store == nil {
		return false, ErrStoreNotConfigured
	}
	if !pl.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownPlatform, pl)
	}

	_, err := s.store.GetConnectionToken(ctx, pl)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return false, nil
		}
		return false, fmt.Errorf("read token: %w", err)
	}
	return true, nil
}

// Verify checks a presented plaintext token against the stored hash
// for its platform.
func (s *Service) Verify(ctx context.Context, token string) (platform.Platform, error) {
	if s.store == nil {
		return "", ErrStoreNotConfigured
	}

	parsed, err := ParseToken(token)
	if err != nil {
		return "", err
	}

	hash, err := s.store.GetConnectionToken(ctx, parsed.Platform)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", ErrNotConnected
		}
		return "", fmt.Errorf("read token: %w", err)
	}

	ok, err := VerifyToken(token, hash)
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}
	if !ok {
		return "", ErrNotConnected
	}
	return parsed.Platform, nil
}

// MemoryTokenStore is an in-process TokenStore for tests and for
// running without Redis.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	hashes map[platform.Platform]string
}

// NewMemoryTokenStore returns an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{hashes: make(map[platform.Platform]string)}
}

// GetConnectionToken returns the stored hash or cache.ErrCacheMiss.
func (m *MemoryTokenStore) GetConnectionToken(ctx context.Context, pl platform.Platform) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hash, ok := m.hashes[pl]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return hash, nil
}

// SetConnectionToken stores the hash for the platform.
func (m *MemoryTokenStore) SetConnectionToken(ctx context.Context, pl platform.Platform, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashes[pl] = hash
	return nil
}

// DeleteConnectionToken removes the stored hash for the platform.
func (m *MemoryTokenStore) DeleteConnectionToken(ctx context.Context, pl platform.Platform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hashes, pl)
	return nil
}
