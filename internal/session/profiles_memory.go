package session

import (
	"context"
	"sync"

	"storefront/pkg/platform/sentinel"
)

// InMemoryProfiles is a ProfileDocuments backed by a map.
type InMemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[string]UserProfile
}

func NewInMemoryProfiles() *InMemoryProfiles {
	return &InMemoryProfiles{profiles: make(map[string]UserProfile)}
}

func (s *InMemoryProfiles) Get(_ context.Context, subjectID string) (*UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[subjectID]; ok {
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryProfiles) Save(_ context.Context, profile *UserProfile) error {
	if profile == nil || profile.SubjectID == "" {
		return sentinel.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.SubjectID] = *profile
	return nil
}
