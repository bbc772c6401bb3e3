package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"docman/internal/model"
	"docman/internal/repository"
)

// MaxNameLength bounds lender and lender document names.
const MaxNameLength = 30

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRequest, MaxNameLength)
	}
	return name, nil
}

// LenderService manages lenders. Every operation is reserved to superusers.
type LenderService interface {
	Create(ctx context.Context, actor model.Actor, name string) (*model.Lender, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.Lender, error)
	List(ctx context.Context, actor model.Actor) ([]model.Lender, error)
}

type lenderService struct {
	store repository.Store
	log   *slog.Logger
	now   func() time.Time
}

// NewLenderService constructs a new LenderService.
func NewLenderService(store repository.Store, logger *slog.Logger) LenderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &lenderService{store: store, log: logger, now: time.Now}
}

func (s *lenderService) Create(ctx context.Context, actor model.Actor, name string) (*model.Lender, error) {
	if !actor.Superuser {
		return nil, fmt.Errorf("%w: superuser required", ErrPermissionDenied)
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	l, err := s.store.Lenders().Create(ctx, &model.Lender{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, repoErr(err, "lender")
	}
	s.log.InfoContext(ctx, "lender created", "lender_id", l.ID, "user_id", actor.UserID)
	return l, nil
}

func (s *lenderService) Get(ctx context.Context, actor model.Actor, id string) (*model.Lender, error) {
	if !actor.Superuser {
		return nil, fmt.Errorf("%w: superuser required", ErrPermissionDenied)
	}
	l, err := s.store.Lenders().FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "lender")
	}
	return l, nil
}

func (s *lenderService) List(ctx context.Context, actor model.Actor) ([]model.Lender, error) {
	if !actor.Superuser {
		return nil, fmt.Errorf("%w: superuser required", ErrPermissionDenied)
	}
	lenders, err := s.store.Lenders().List(ctx)
	if err != nil {
		return nil, repoErr(err, "lenders")
	}
	return lenders, nil
}

// LenderDocumentService manages document slots.
type LenderDocumentService interface {
	// Create adds a slot named name to lenderID. An empty lenderID means the actor's own lender.
	Create(ctx context.Context, actor model.Actor, lenderID, name string) (*model.LenderDocument, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.LenderDocument, error)
	// List returns the slots visible to actor ordered by name.
	List(ctx context.Context, actor model.Actor) ([]model.LenderDocument, error)
}

type lenderDocumentService struct {
	store repository.Store
	log   *slog.Logger
	now   func() time.Time
}

// NewLenderDocumentService constructs a new LenderDocumentService.
func NewLenderDocumentService(store repository.Store, logger *slog.Logger) LenderDocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &lenderDocumentService{store: store, log: logger, now: time.Now}
}

func (s *lenderDocumentService) Create(ctx context.Context, actor model.Actor, lenderID, name string) (*model.LenderDocument, error) {
	if !actor.HasPerm(model.PermCreateLenderDocument) {
		return nil, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermCreateLenderDocument)
	}
	if lenderID == "" {
		lenderID = actor.LenderID
	}
	if lenderID == "" {
		return nil, fmt.Errorf("%w: lender_id is required", ErrInvalidRequest)
	}
	if !actor.CanAccessLender(lenderID) {
		return nil, fmt.Errorf("%w: lender", ErrNotFound)
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	ld, err := s.store.LenderDocuments().Create(ctx, &model.LenderDocument{
		ID:        uuid.New().String(),
		LenderID:  lenderID,
		Name:      name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: lender document %q clashes with an existing name", ErrInvalidRequest, name)
		}
		return nil, repoErr(err, "lender")
	}
	s.log.InfoContext(ctx, "lender document created",
		"lender_document_id", ld.ID,
		"lender_id", ld.LenderID,
		"user_id", actor.UserID,
	)
	return ld, nil
}

func (s *lenderDocumentService) Get(ctx context.Context, actor model.Actor, id string) (*model.LenderDocument, error) {
	if !actor.HasPerm(model.PermReadDocument) {
		return nil, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermReadDocument)
	}
	ld, err := s.store.LenderDocuments().FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "lender document")
	}
	if !actor.CanAccessLender(ld.LenderID) {
		return nil, fmt.Errorf("%w: lender document", ErrNotFound)
	}
	return ld, nil
}

func (s *lenderDocumentService) List(ctx context.Context, actor model.Actor) ([]model.LenderDocument, error) {
	if !actor.HasPerm(model.PermReadDocument) {
		return nil, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermReadDocument)
	}
	var f repository.LenderDocumentFilter
	if !actor.Superuser {
		if actor.LenderID == "" {
			return []model.LenderDocument{}, nil
		}
		f.LenderID = actor.LenderID
	}
	slots, err := s.store.LenderDocuments().List(ctx, f)
	if err != nil {
		return nil, repoErr(err, "lender documents")
	}
	return slots, nil
}
