package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docman/internal/model"
	"docman/internal/repository"
)

// ProfileService links externally managed users to lenders.
type ProfileService interface {
	// OnUserCreated is the post-user-creation hook. Calling it again for the same user
	// returns the existing profile.
	OnUserCreated(ctx context.Context, userID string) (*model.Profile, error)
	// AssignLender sets the user's lender, creating the profile when needed.
	AssignLender(ctx context.Context, userID, lenderID string) (*model.Profile, error)
	// LenderFor returns the user's lender, or "" when the user has none.
	LenderFor(ctx context.Context, userID string) (string, error)
}

type profileService struct {
	store repository.Store
	log   *slog.Logger
	now   func() time.Time
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(store repository.Store, logger *slog.Logger) ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileService{store: store, log: logger, now: time.Now}
}

func (s *profileService) OnUserCreated(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	p, err := s.store.Profiles().FindByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, repoErr(err, "profile")
	}

	p, err = s.store.Profiles().Create(ctx, &model.Profile{UserID: userID, CreatedAt: s.now().UTC()})
	if errors.Is(err, repository.ErrConflict) {
		// Lost a race with a concurrent hook call.
		p, err = s.store.Profiles().FindByUserID(ctx, userID)
		return p, repoErr(err, "profile")
	}
	if err != nil {
		return nil, repoErr(err, "profile")
	}
	s.log.InfoContext(ctx, "profile created", "user_id", userID)
	return p, nil
}

func (s *profileService) AssignLender(ctx context.Context, userID, lenderID string) (*model.Profile, error) {
	if userID == "" || lenderID == "" {
		return nil, fmt.Errorf("%w: user id and lender_id are required", ErrInvalidRequest)
	}

	var out *model.Profile
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Lenders().FindByID(ctx, lenderID); err != nil {
			return repoErr(err, "lender")
		}

		err := tx.Profiles().SetLender(ctx, userID, &lenderID)
		if errors.Is(err, repository.ErrNotFound) {
			out, err = tx.Profiles().Create(ctx, &model.Profile{
				UserID:    userID,
				LenderID:  &lenderID,
				CreatedAt: s.now().UTC(),
			})
			return repoErr(err, "profile")
		}
		if err != nil {
			return repoErr(err, "profile")
		}
		out, err = tx.Profiles().FindByUserID(ctx, userID)
		return repoErr(err, "profile")
	})
	if err != nil {
		return nil, txErr(err)
	}
	s.log.InfoContext(ctx, "lender assigned", "user_id", userID, "lender_id", lenderID)
	return out, nil
}

func (s *profileService) LenderFor(ctx context.Context, userID string) (string, error) {
	p, err := s.store.Profiles().FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", repoErr(err, "profile")
	}
	if p.LenderID == nil {
		return "", nil
	}
	return *p.LenderID, nil
}
