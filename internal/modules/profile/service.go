// README: Welcome flow: get-or-create over the profile store.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ProfileStore is the slice of the store contract the welcome flow needs.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Create(ctx context.Context, email string) error
	Patch(ctx context.Context, email, accessKey string, fields PatchFields) (*Profile, error)
}

type Service struct {
	store ProfileStore
}

func NewService(store ProfileStore) *Service {
	return &Service{store: store}
}

// FatalError marks a backend fault the conversation cannot recover from.
// The turn handler aborts the turn without attempting a reply.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "profile: unrecoverable backend fault: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error { return e.Err }

// WelcomeResult is the outcome of one welcome turn. Known means the email
// already had a profile and the caller must be asked for their access key;
// otherwise Profile carries the freshly created record.
type WelcomeResult struct {
	Known   bool
	Profile *Profile
}

// Welcome looks the caller up by email and creates a profile on first
// contact. "Not found" is the expected branch, not a failure. Creation
// re-fetches the row to pick up the generated access key, then patches the
// firstname; the three calls are strictly sequential by data dependency.
func (s *Service) Welcome(ctx context.Context, email, firstname string) (WelcomeResult, error) {
	doc, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		log.Info().Str("email", email).Msg("welcome: user found")
		return WelcomeResult{Known: true, Profile: doc}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return WelcomeResult{}, &FatalError{Err: fmt.Errorf("lookup: %w", err)}
	}

	log.Info().Str("email", email).Msg("welcome: user not found, creating")
	if err := s.store.Create(ctx, email); err != nil {
		return WelcomeResult{}, &FatalError{Err: fmt.Errorf("create: %w", err)}
	}
	doc, err = s.store.GetByEmail(ctx, email)
	if err != nil {
		return WelcomeResult{}, &FatalError{Err: fmt.Errorf("refetch: %w", err)}
	}
	doc, err = s.store.Patch(ctx, email, doc.AccessKey, PatchFields{Firstname: &firstname})
	if err != nil {
		return WelcomeResult{}, fmt.Errorf("welcome: patch firstname: %w", err)
	}

	log.Info().Str("email", email).Msg("welcome: user created")
	return WelcomeResult{Profile: doc}, nil
}
