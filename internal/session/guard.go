package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tallypos/terminal/pkg/enums"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type tokenStore interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Identity is the decoded cashier identity carried by the bearer token.
type Identity struct {
	Subject   string     `json:"subject"`
	Username  string     `json:"username"`
	Role      enums.Role `json:"role"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Expired reports whether the identity's token has lapsed.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Route returns the landing path for the identity's role.
func (i Identity) Route() string {
	if i.Role == enums.RoleAdmin {
		return "/dashboard"
	}
	return "/kasir"
}

// Service is the terminal's identity guard. The token is decoded without
// signature verification: the terminal holds no signing secret, and the
// backend re-verifies every request anyway.
type Service interface {
	Login(ctx context.Context, username, password string) (Identity, error)
	Restore(ctx context.Context) (*Identity, error)
	Logout(ctx context.Context) error
	Current() *Identity
}

type service struct {
	mu       sync.RWMutex
	identity *Identity
	auth     authenticator
	tokens   *TokenHolder
	store    tokenStore
	logger   *logger.Logger
	now      func() time.Time
}

// NewService builds the identity guard.
func NewService(auth authenticator, tokens *TokenHolder, store tokenStore, logg *logger.Logger) (Service, error) {
	if auth == nil {
		return nil, fmt.Errorf("authenticator required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token holder required")
	}
	if store == nil {
		return nil, fmt.Errorf("token store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		auth:   auth,
		tokens: tokens,
		store:  store,
		logger: logg,
		now:    time.Now,
	}, nil
}

// Login exchanges credentials for a token, decodes the identity and persists
// the token for later restores.
func (s *service) Login(ctx context.Context, username, password string) (Identity, error) {
	if username == "" || password == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return Identity{}, err
	}
	identity, err := decodeIdentity(token)
	if err != nil {
		return Identity{}, err
	}
	if identity.Expired(s.now()) {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "received an already expired token")
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()
	s.tokens.Set(token)

	if err := s.store.SaveToken(ctx, token); err != nil {
		s.logger.Warn(ctx, "token not persisted, session will not survive restart: "+err.Error())
	}
	s.logger.Info(s.logger.WithCashier(ctx, identity.Username), "session opened")
	return identity, nil
}

// Restore loads the persisted token from the local store. An absent,
// malformed or expired token restores nothing; expired tokens are cleared.
func (s *service) Restore(ctx context.Context) (*Identity, error) {
	token, err := s.store.LoadToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	identity, err := decodeIdentity(token)
	if err != nil {
		s.logger.Warn(ctx, "discarding malformed persisted token: "+err.Error())
		_ = s.store.ClearToken(ctx)
		return nil, nil
	}
	if identity.Expired(s.now()) {
		_ = s.store.ClearToken(ctx)
		return nil, nil
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()
	s.tokens.Set(token)
	s.logger.Info(s.logger.WithCashier(ctx, identity.Username), "session restored")
	return &identity, nil
}

// Logout drops the in-memory identity and the persisted token. It is
// idempotent.
func (s *service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
	s.tokens.Set("")
	return s.store.ClearToken(ctx)
}

// Current returns the active identity, or nil when logged out or expired.
func (s *service) Current() *Identity {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()
	if identity == nil {
		return nil
	}
	if identity.Expired(s.now()) {
		return nil
	}
	copied := *identity
	return &copied
}

func decodeIdentity(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "token is not a valid JWT")
	}

	identity := Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		identity.Subject = sub
	}
	if username, ok := claims["username"].(string); ok {
		identity.Username = username
	}
	if role, ok := claims["role"].(string); ok {
		parsed, err := enums.ParseRole(role)
		if err != nil {
			return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries an unknown role").
				WithDetails(map[string]any{"role": role})
		}
		identity.Role = parsed
	} else {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries no role claim")
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	return identity, nil
}
