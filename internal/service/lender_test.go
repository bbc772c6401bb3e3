package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docman/internal/logger"
	"docman/internal/model"
	"docman/internal/repository/memory"
)

func TestLenderService(t *testing.T) {
	ctx := context.Background()
	svc := NewLenderService(memory.NewStore(), logger.Discard())

	_, err := svc.Create(ctx, editor, "Acme")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Create(ctx, superuser, "   ")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Create(ctx, superuser, strings.Repeat("x", MaxNameLength+1))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	zenith, err := svc.Create(ctx, superuser, " Zenith ")
	require.NoError(t, err)
	assert.Equal(t, "Zenith", zenith.Name)
	assert.NotEmpty(t, zenith.ID)

	_, err = svc.Create(ctx, superuser, "Acme")
	require.NoError(t, err)

	got, err := svc.Get(ctx, superuser, zenith.ID)
	require.NoError(t, err)
	assert.Equal(t, zenith.ID, got.ID)

	_, err = svc.Get(ctx, superuser, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.List(ctx, editor)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	items, err := svc.List(ctx, superuser)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Acme", items[0].Name)
}

func TestLenderDocumentService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, l := range []model.Lender{{ID: "lender-1", Name: "Acme"}, {ID: "lender-2", Name: "Globex"}} {
		_, err := store.Lenders().Create(ctx, &l)
		require.NoError(t, err)
	}
	svc := NewLenderDocumentService(store, logger.Discard())

	t.Run("create defaults to the actor's lender", func(t *testing.T) {
		ld, err := svc.Create(ctx, editor, "", "Privacy Policy")
		require.NoError(t, err)
		assert.Equal(t, "lender-1", ld.LenderID)
		assert.False(t, ld.IsPublished())
		assert.Equal(t, 0, ld.ActiveVersion)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.Create(ctx, editor, "lender-1", "Privacy Policy")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("other lender", func(t *testing.T) {
		_, err := svc.Create(ctx, editor, "lender-2", "Terms")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("superuser picks any lender", func(t *testing.T) {
		ld, err := svc.Create(ctx, superuser, "lender-2", "Terms")
		require.NoError(t, err)
		assert.Equal(t, "lender-2", ld.LenderID)

		_, err = svc.Create(ctx, superuser, "ghost", "Terms")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.Create(ctx, superuser, "", "Terms")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("permission", func(t *testing.T) {
		_, err := svc.Create(ctx, reader, "", "Fees")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("list and get are lender scoped", func(t *testing.T) {
		mine, err := svc.List(ctx, reader)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Privacy Policy", mine[0].Name)

		got, err := svc.Get(ctx, reader, mine[0].ID)
		require.NoError(t, err)
		assert.Equal(t, mine[0].ID, got.ID)

		_, err = svc.Get(ctx, outsider, mine[0].ID)
		assert.ErrorIs(t, err, ErrNotFound)

		all, err := svc.List(ctx, superuser)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.Lenders().Create(ctx, &model.Lender{ID: "lender-1", Name: "Acme"})
	require.NoError(t, err)
	svc := NewProfileService(store, logger.Discard())

	t.Run("hook is idempotent", func(t *testing.T) {
		p1, err := svc.OnUserCreated(ctx, "user-1")
		require.NoError(t, err)
		assert.Nil(t, p1.LenderID)

		p2, err := svc.OnUserCreated(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, p1.CreatedAt, p2.CreatedAt)

		_, err = svc.OnUserCreated(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("lender lookup", func(t *testing.T) {
		lender, err := svc.LenderFor(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, lender)

		lender, err = svc.LenderFor(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, lender)
	})

	t.Run("assign lender", func(t *testing.T) {
		p, err := svc.AssignLender(ctx, "user-1", "lender-1")
		require.NoError(t, err)
		require.NotNil(t, p.LenderID)
		assert.Equal(t, "lender-1", *p.LenderID)

		lender, err := svc.LenderFor(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "lender-1", lender)
	})

	t.Run("assign creates missing profile", func(t *testing.T) {
		p, err := svc.AssignLender(ctx, "user-2", "lender-1")
		require.NoError(t, err)
		assert.Equal(t, "user-2", p.UserID)
	})

	t.Run("assign unknown lender", func(t *testing.T) {
		_, err := svc.AssignLender(ctx, "user-1", "ghost")
		assert.ErrorIs(t, err, ErrNotFound)

		lender, err := svc.LenderFor(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "lender-1", lender)
	})
}
