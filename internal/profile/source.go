package profile

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"storefront/internal/backend"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/email"
)

// Source reads and writes customer profiles. Missing records fail with
// CodeNotFound.
type Source interface {
	BySubject(ctx context.Context, bearer, subjectID string) (*CustomerProfile, error)
	ByEmail(ctx context.Context, bearer, email string) (*CustomerProfile, error)
	Save(ctx context.Context, bearer string, p *CustomerProfile) error
}

// HTTPSource talks to the backend customer endpoints.
type HTTPSource struct {
	client *backend.Client
}

func NewHTTPSource(client *backend.Client) *HTTPSource {
	return &HTTPSource{client: client}
}

func (s *HTTPSource) BySubject(ctx context.Context, bearer, subjectID string) (*CustomerProfile, error) {
	var p CustomerProfile
	err := s.client.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Path:   "/customers/" + url.PathEscape(subjectID),
		Bearer: bearer,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *HTTPSource) ByEmail(ctx context.Context, bearer, addr string) (*CustomerProfile, error) {
	var p CustomerProfile
	err := s.client.Do(ctx, backend.Request{
		Method: http.MethodGet,
		Path:   "/customers",
		Query:  url.Values{"email": {addr}},
		Bearer: bearer,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *HTTPSource) Save(ctx context.Context, bearer string, p *CustomerProfile) error {
	return s.client.Do(ctx, backend.Request{
		Method: http.MethodPut,
		Path:   "/customers/" + url.PathEscape(p.SubjectID),
		Body:   p,
		Bearer: bearer,
	}, p)
}

// MemorySource keeps profiles in process. Email lookups are
// case-insensitive.
type MemorySource struct {
	mu       sync.RWMutex
	profiles map[string]*CustomerProfile
}

func NewMemorySource() *MemorySource {
	return &MemorySource{profiles: make(map[string]*CustomerProfile)}
}

func (m *MemorySource) BySubject(_ context.Context, _, subjectID string) (*CustomerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.profiles[subjectID]; ok {
		return clone(p), nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "customer not found")
}

func (m *MemorySource) ByEmail(_ context.Context, _, addr string) (*CustomerProfile, error) {
	addr = email.Normalize(addr)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, addr) {
			return clone(p), nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "customer not found")
}

func (m *MemorySource) Save(_ context.Context, _ string, p *CustomerProfile) error {
	if p == nil || p.SubjectID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "subject id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.SubjectID] = clone(p)
	return nil
}

func clone(p *CustomerProfile) *CustomerProfile {
	c := *p
	c.Documents = append([]IdentityDocument(nil), p.Documents...)
	return &c
}
