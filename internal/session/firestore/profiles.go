// Package firestore stores extended user profile documents in Cloud
// Firestore. Documents live in the "users" collection keyed by the identity
// provider's subject id.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront/internal/session"
	"storefront/pkg/platform/sentinel"
)

const usersCollection = "users"

// profileDoc is the persisted shape. Field names match the documents the
// storefront front end already writes.
type profileDoc struct {
	Email         string    `firestore:"email"`
	DisplayName   string    `firestore:"displayName"`
	EmailVerified bool      `firestore:"emailVerified"`
	PhotoRef      string    `firestore:"photoURL,omitempty"`
	IconRef       string    `firestore:"iconURL,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt"`
	LastLoginAt   time.Time `firestore:"lastLoginAt"`
}

// ProfileStore implements session.ProfileDocuments.
type ProfileStore struct {
	client *firestore.Client
}

func NewProfileStore(client *firestore.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) col() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

func (s *ProfileStore) Get(ctx context.Context, subjectID string) (*session.UserProfile, error) {
	if s.client == nil {
		return nil, errors.New("firestore client is nil")
	}
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, sentinel.ErrNotFound
	}

	snap, err := s.col().Doc(subjectID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", subjectID, errors.Join(sentinel.ErrUnavailable, err))
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", subjectID, err)
	}
	return fromDoc(subjectID, doc), nil
}

// Save writes the whole document. IsAdmin is never persisted; it comes from
// provider claims on every resolution.
func (s *ProfileStore) Save(ctx context.Context, profile *session.UserProfile) error {
	if s.client == nil {
		return errors.New("firestore client is nil")
	}
	if profile == nil || strings.TrimSpace(profile.SubjectID) == "" {
		return errors.New("profile subject id is required")
	}
	if _, err := s.col().Doc(profile.SubjectID).Set(ctx, toDoc(profile)); err != nil {
		return fmt.Errorf("save profile %s: %w", profile.SubjectID, errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func toDoc(p *session.UserProfile) profileDoc {
	return profileDoc{
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		EmailVerified: p.EmailVerified,
		PhotoRef:      p.PhotoRef,
		IconRef:       p.IconRef,
		CreatedAt:     p.CreatedAt.UTC(),
		LastLoginAt:   p.LastLoginAt.UTC(),
	}
}

func fromDoc(subjectID string, d profileDoc) *session.UserProfile {
	return &session.UserProfile{
		SubjectID:     subjectID,
		Email:         d.Email,
		DisplayName:   d.DisplayName,
		EmailVerified: d.EmailVerified,
		PhotoRef:      d.PhotoRef,
		IconRef:       d.IconRef,
		CreatedAt:     d.CreatedAt,
		LastLoginAt:   d.LastLoginAt,
	}
}
