package mocks

import (
	"context"
	"sync"

	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/services/avatar"
)

// MockAvatarResolver returns a fixed URL per player and counts lookups
type MockAvatarResolver struct {
	mu    sync.Mutex
	calls int

	// URLs overrides the result for specific players
	URLs map[model.PlayerID]string
}

// Ensure MockAvatarResolver implements Resolver
var _ avatar.Resolver = (*MockAvatarResolver)(nil)

// NewMockAvatarResolver creates a MockAvatarResolver
func NewMockAvatarResolver() *MockAvatarResolver {
	return &MockAvatarResolver{URLs: make(map[model.PlayerID]string)}
}

// Resolve returns the configured URL or https://avatars.test/<id>
func (r *MockAvatarResolver) Resolve(_ context.Context, id model.PlayerID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if u, ok := r.URLs[id]; ok {
		return u
	}
	return "https://avatars.test/" + string(id)
}

// Calls returns the number of Resolve calls so far
func (r *MockAvatarResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
