package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docman/internal/model"
	"docman/internal/repository"
)

func seed(t *testing.T, st *Store) (model.Lender, model.LenderDocument) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	l, err := st.Lenders().Create(ctx, &model.Lender{ID: "lender-1", Name: "Acme", CreatedAt: now})
	require.NoError(t, err)
	ld, err := st.LenderDocuments().Create(ctx, &model.LenderDocument{ID: "slot-1", LenderID: l.ID, Name: "Terms", CreatedAt: now})
	require.NoError(t, err)
	return *l, *ld
}

func doc(id string, major, minor int, at time.Time) *model.Document {
	return &model.Document{
		ID:               id,
		LenderDocumentID: "slot-1",
		StorageBucket:    "mem",
		StorageKey:       id,
		VersionMajor:     major,
		VersionMinor:     minor,
		CreatedAt:        at,
	}
}

func TestLenderDocuments_Constraints(t *testing.T) {
	st := NewStore()
	l, _ := seed(t, st)
	ctx := context.Background()

	_, err := st.LenderDocuments().Create(ctx, &model.LenderDocument{ID: "slot-2", LenderID: l.ID, Name: "Terms"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	for _, name := range []string{"terms", "TERMS ", " t e r m s"} {
		_, err = st.LenderDocuments().Create(ctx, &model.LenderDocument{ID: "slot-" + name, LenderID: l.ID, Name: name})
		assert.ErrorIs(t, err, repository.ErrConflict, name)
	}

	_, err = st.Lenders().Create(ctx, &model.Lender{ID: "lender-2", Name: "Globex"})
	require.NoError(t, err)
	_, err = st.LenderDocuments().Create(ctx, &model.LenderDocument{ID: "slot-4", LenderID: "lender-2", Name: "terms"})
	assert.NoError(t, err)

	_, err = st.LenderDocuments().Create(ctx, &model.LenderDocument{ID: "slot-3", LenderID: "ghost", Name: "Terms"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = st.LenderDocuments().FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDocuments_LatestOrdering(t *testing.T) {
	st := NewStore()
	seed(t, st)
	ctx := context.Background()
	docs := st.Documents()

	latest, err := docs.Latest(ctx, "slot-1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = docs.Create(ctx, doc("a", 0, 1, t0))
	require.NoError(t, err)
	_, err = docs.Create(ctx, doc("b", 0, 2, t0.Add(time.Second)))
	require.NoError(t, err)
	// Same timestamp: the higher version wins.
	_, err = docs.Create(ctx, doc("c", 1, 0, t0.Add(time.Second)))
	require.NoError(t, err)

	latest, err = docs.Latest(ctx, "slot-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "c", latest.ID)

	all, err := docs.List(ctx, repository.DocumentFilter{LenderID: "lender-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	none, err := docs.List(ctx, repository.DocumentFilter{LenderID: "other"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocuments_UniqueVersionAndKey(t *testing.T) {
	st := NewStore()
	seed(t, st)
	ctx := context.Background()
	now := time.Now()

	_, err := st.Documents().Create(ctx, doc("a", 0, 1, now))
	require.NoError(t, err)

	dup := doc("b", 0, 1, now)
	_, err = st.Documents().Create(ctx, dup)
	assert.ErrorIs(t, err, repository.ErrConflict)

	sameKey := doc("c", 0, 2, now)
	sameKey.StorageKey = "a"
	_, err = st.Documents().Create(ctx, sameKey)
	assert.ErrorIs(t, err, repository.ErrConflict)

	orphan := doc("d", 0, 3, now)
	orphan.LenderDocumentID = "missing"
	_, err = st.Documents().Create(ctx, orphan)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetActive(t *testing.T) {
	st := NewStore()
	seed(t, st)
	ctx := context.Background()

	_, err := st.Documents().Create(ctx, doc("a", 1, 0, time.Now()))
	require.NoError(t, err)

	require.NoError(t, st.LenderDocuments().SetActive(ctx, "slot-1", "a", 1))
	ld, err := st.LenderDocuments().FindByID(ctx, "slot-1")
	require.NoError(t, err)
	assert.True(t, ld.IsActive("a"))
	assert.Equal(t, 1, ld.ActiveVersion)

	assert.ErrorIs(t, st.LenderDocuments().SetActive(ctx, "slot-1", "ghost", 2), repository.ErrNotFound)
	assert.ErrorIs(t, st.LenderDocuments().SetActive(ctx, "ghost", "a", 2), repository.ErrNotFound)
}

func TestWithinTx_RollsBack(t *testing.T) {
	st := NewStore()
	seed(t, st)
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Documents().Create(ctx, doc("a", 0, 1, time.Now())); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = st.Documents().FindByID(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Panics(t, func() {
		_ = st.WithinTx(ctx, func(tx repository.Store) error {
			_, _ = tx.Documents().Create(ctx, doc("b", 0, 1, time.Now()))
			panic("kaboom")
		})
	})
	_, err = st.Documents().FindByID(ctx, "b")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithinTx_CommitsAndNests(t *testing.T) {
	st := NewStore()
	seed(t, st)
	ctx := context.Background()

	err := st.WithinTx(ctx, func(tx repository.Store) error {
		return tx.WithinTx(ctx, func(inner repository.Store) error {
			_, err := inner.Documents().Create(ctx, doc("a", 0, 1, time.Now()))
			return err
		})
	})
	require.NoError(t, err)

	_, err = st.Documents().FindByID(ctx, "a")
	assert.NoError(t, err)
}

func TestWithinTx_Serializes(t *testing.T) {
	st := NewStore()
	seed(t, st)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.WithinTx(ctx, func(tx repository.Store) error {
				latest, err := tx.Documents().Latest(ctx, "slot-1")
				if err != nil {
					return err
				}
				minor := 1
				if latest != nil {
					minor = latest.VersionMinor + 1
				}
				d := doc(fmt.Sprintf("d%d", minor), 0, minor, time.Date(2024, 1, 1, 0, 0, minor, 0, time.UTC))
				_, err = tx.Documents().Create(ctx, d)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := st.Documents().List(ctx, repository.DocumentFilter{LenderDocumentID: "slot-1"})
	require.NoError(t, err)
	assert.Len(t, all, 20)
	assert.Equal(t, 20, all[0].VersionMinor)
}

func TestProfiles(t *testing.T) {
	st := NewStore()
	l, _ := seed(t, st)
	ctx := context.Background()

	_, err := st.Profiles().Create(ctx, &model.Profile{UserID: "user-1"})
	require.NoError(t, err)
	_, err = st.Profiles().Create(ctx, &model.Profile{UserID: "user-1"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, st.Profiles().SetLender(ctx, "user-1", &l.ID))
	p, err := st.Profiles().FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, p.LenderID)
	assert.Equal(t, l.ID, *p.LenderID)

	ghost := "ghost"
	assert.ErrorIs(t, st.Profiles().SetLender(ctx, "user-1", &ghost), repository.ErrNotFound)
	assert.ErrorIs(t, st.Profiles().SetLender(ctx, "nobody", nil), repository.ErrNotFound)
}
