// Package profile fetches the extended customer profile used by the
// checkout completeness check.
package profile

import (
	"context"
	"log/slog"
	"strings"

	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/email"
	pstrings "storefront/pkg/platform/strings"
)

type Service struct {
	source Source
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(source Source, opts ...Option) *Service {
	s := &Service{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch looks the customer up by subject, falling back to email. A customer
// with no record yet gets an empty profile, which is incomplete. Every
// other failure is CodeProfileFetchFailed.
func (s *Service) Fetch(ctx context.Context, bearer, subjectID, addr string) (*CustomerProfile, error) {
	addr = email.Normalize(addr)

	if subjectID != "" {
		p, err := s.source.BySubject(ctx, bearer, subjectID)
		if err == nil {
			return p, nil
		}
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeProfileFetchFailed, "failed to fetch customer profile")
		}
	}

	if addr != "" {
		p, err := s.source.ByEmail(ctx, bearer, addr)
		if err == nil {
			s.logger.InfoContext(ctx, "customer profile resolved by email", "subject_id", subjectID)
			return p, nil
		}
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeProfileFetchFailed, "failed to fetch customer profile")
		}
	}

	if subjectID == "" && addr == "" {
		return nil, dErrors.New(dErrors.CodeProfileFetchFailed, "no subject or email to look up")
	}
	return &CustomerProfile{SubjectID: subjectID, Email: addr}, nil
}

// Update is the personal-data form write. Text fields are trimmed.
// Document entries without a kind or number are dropped, and duplicate
// kinds collapse to the first entry.
func (s *Service) Update(ctx context.Context, bearer string, p *CustomerProfile) (*CustomerProfile, error) {
	if p == nil || strings.TrimSpace(p.SubjectID) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "subject id is required")
	}
	p.LegalName = strings.TrimSpace(p.LegalName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)
	p.Gender = strings.TrimSpace(p.Gender)
	p.Email = email.Normalize(p.Email)
	p.Documents = dedupeDocuments(p.Documents)

	if err := s.source.Save(ctx, bearer, p); err != nil {
		if dErrors.HasCode(err, dErrors.CodeBadRequest) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save customer profile")
	}
	return p, nil
}

func dedupeDocuments(docs []IdentityDocument) []IdentityDocument {
	cleaned := make([]IdentityDocument, 0, len(docs))
	for _, d := range docs {
		d.Kind = pstrings.Fold(d.Kind)
		d.Number = strings.TrimSpace(d.Number)
		if d.Number == "" {
			continue
		}
		cleaned = append(cleaned, d)
	}
	return pstrings.DedupeBy(cleaned, func(d IdentityDocument) string { return d.Kind })
}
