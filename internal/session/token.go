package session

import "sync"

// TokenHolder is the process-wide bearer token slot. The backend client
// reads it on every request and the session guard writes it on login,
// restore and logout.
type TokenHolder struct {
	mu    sync.RWMutex
	token string
}

// NewTokenHolder builds an empty holder.
func NewTokenHolder() *TokenHolder {
	return &TokenHolder{}
}

// Token returns the current bearer token, or "" when logged out.
func (h *TokenHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Set replaces the current token. An empty value logs the terminal out.
func (h *TokenHolder) Set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}
