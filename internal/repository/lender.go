package repository

import (
	"context"

	"docman/internal/model"
)

// LenderRepository defines data access for lenders.
type LenderRepository interface {
	Create(ctx context.Context, l *model.Lender) (*model.Lender, error)
	FindByID(ctx context.Context, id string) (*model.Lender, error)
	// List returns all lenders ordered by name.
	List(ctx context.Context) ([]model.Lender, error)
}

// ProfileRepository defines data access for user profiles.
type ProfileRepository interface {
	// Create inserts a profile. It returns ErrConflict if the user already has one.
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// SetLender changes the lender a user belongs to.
	SetLender(ctx context.Context, userID string, lenderID *string) error
}
