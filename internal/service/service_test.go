package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docman/internal/logger"
	"docman/internal/model"
	"docman/internal/repository"
	"docman/internal/repository/memory"
	"docman/internal/storage"
)

// tickingClock returns a strictly increasing time on every call.
type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *tickingClock {
	return &tickingClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

var (
	superuser = model.Actor{UserID: "root", Superuser: true}
	editor    = model.Actor{
		UserID:   "editor-1",
		LenderID: "lender-1",
		Permissions: []string{
			model.PermReadDocument,
			model.PermDraftDocument,
			model.PermPublishDocument,
			model.PermCreateLenderDocument,
		},
	}
	outsider = model.Actor{
		UserID:      "outsider",
		LenderID:    "lender-2",
		Permissions: editor.Permissions,
	}
	reader = model.Actor{UserID: "reader", LenderID: "lender-1", Permissions: []string{model.PermReadDocument}}
)

type fixture struct {
	store *memory.Store
	blobs storage.Storage
	docs  DocumentService
	slot  *model.LenderDocument
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	blobs, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, l := range []model.Lender{{ID: "lender-1", Name: "Acme"}, {ID: "lender-2", Name: "Globex"}} {
		_, err := store.Lenders().Create(ctx, &l)
		require.NoError(t, err)
	}
	slot, err := store.LenderDocuments().Create(ctx, &model.LenderDocument{
		ID:       "slot-1",
		LenderID: "lender-1",
		Name:     "Privacy Policy",
	})
	require.NoError(t, err)

	return &fixture{
		store: store,
		blobs: blobs,
		docs:  newDocs(store, blobs),
		slot:  slot,
	}
}

func newDocs(store repository.Store, blobs storage.Storage) DocumentService {
	return NewDocumentService(store, blobs, DocumentServiceConfig{
		Environment:     "test",
		MaxContentBytes: 1 << 10,
		Logger:          logger.Discard(),
		Now:             newClock().Now,
	})
}

func (f *fixture) slotState(t *testing.T) *model.LenderDocument {
	t.Helper()
	ld, err := f.store.LenderDocuments().FindByID(context.Background(), f.slot.ID)
	require.NoError(t, err)
	return ld
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	docs, err := f.store.Documents().List(context.Background(), repository.DocumentFilter{LenderDocumentID: f.slot.ID})
	require.NoError(t, err)
	return len(docs)
}
