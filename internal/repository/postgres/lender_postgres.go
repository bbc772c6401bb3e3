package postgres

import (
	"context"
	"database/sql"

	"docman/internal/model"
	"docman/internal/repository"
)

// LenderPostgres is a PostgreSQL implementation of repository.LenderRepository.
type LenderPostgres struct {
	q Querier
}

// NewLenderPostgres creates a new LenderPostgres repository.
func NewLenderPostgres(q Querier) *LenderPostgres {
	return &LenderPostgres{q: q}
}

var _ repository.LenderRepository = (*LenderPostgres)(nil)

// Create inserts a new lender row and returns the stored record.
func (r *LenderPostgres) Create(ctx context.Context, l *model.Lender) (*model.Lender, error) {
	const q = `
		INSERT INTO lenders (id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, name, created_at
	`
	var out model.Lender
	if err := r.q.QueryRowContext(ctx, q, l.ID, l.Name, l.CreatedAt).
		Scan(&out.ID, &out.Name, &out.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// FindByID fetches a single lender by its ID.
func (r *LenderPostgres) FindByID(ctx context.Context, id string) (*model.Lender, error) {
	const q = `SELECT id, name, created_at FROM lenders WHERE id = $1`
	var l model.Lender
	if err := r.q.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// List returns every lender ordered by name.
func (r *LenderPostgres) List(ctx context.Context) ([]model.Lender, error) {
	const q = `SELECT id, name, created_at FROM lenders ORDER BY name, id`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lender, 0)
	for rows.Next() {
		var l model.Lender
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ProfilePostgres is a PostgreSQL implementation of repository.ProfileRepository.
type ProfilePostgres struct {
	q Querier
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(q Querier) *ProfilePostgres {
	return &ProfilePostgres{q: q}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

func (r *ProfilePostgres) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	const q = `
		INSERT INTO profiles (user_id, lender_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING user_id, lender_id, created_at
	`
	var (
		out      model.Profile
		lenderID sql.NullString
	)
	if err := r.q.QueryRowContext(ctx, q, p.UserID, nullString(p.LenderID), p.CreatedAt).
		Scan(&out.UserID, &lenderID, &out.CreatedAt); err != nil {
		return nil, translate(err)
	}
	out.LenderID = stringPtr(lenderID)
	return &out, nil
}

func (r *ProfilePostgres) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `SELECT user_id, lender_id, created_at FROM profiles WHERE user_id = $1`
	var (
		p        model.Profile
		lenderID sql.NullString
	)
	if err := r.q.QueryRowContext(ctx, q, userID).Scan(&p.UserID, &lenderID, &p.CreatedAt); err != nil {
		return nil, translate(err)
	}
	p.LenderID = stringPtr(lenderID)
	return &p, nil
}

func (r *ProfilePostgres) SetLender(ctx context.Context, userID string, lenderID *string) error {
	const q = `UPDATE profiles SET lender_id = $2 WHERE user_id = $1`
	res, err := r.q.ExecContext(ctx, q, userID, nullString(lenderID))
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
