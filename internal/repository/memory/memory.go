// Package memory provides an in-process repository.Store used by tests and local runs
// without PostgreSQL. It enforces the same uniqueness and reference rules as the schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"docman/internal/model"
	"docman/internal/repository"
)

type tables struct {
	lenders   map[string]model.Lender
	profiles  map[string]model.Profile
	slots     map[string]model.LenderDocument
	documents map[string]model.Document
}

func newTables() *tables {
	return &tables{
		lenders:   make(map[string]model.Lender),
		profiles:  make(map[string]model.Profile),
		slots:     make(map[string]model.LenderDocument),
		documents: make(map[string]model.Document),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.lenders {
		c.lenders[k] = v
	}
	for k, v := range t.profiles {
		c.profiles[k] = v
	}
	for k, v := range t.slots {
		c.slots[k] = v
	}
	for k, v := range t.documents {
		c.documents[k] = v
	}
	return c
}

type shared struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *tables
}

// Store is a concurrency-safe in-memory repository.Store. Transactions are serialized
// and roll back by restoring a snapshot taken when they began.
type Store struct {
	s    *shared
	inTx bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{s: &shared{data: newTables()}}
}

var _ repository.Store = (*Store)(nil)

func (st *Store) Lenders() repository.LenderRepository                 { return lenderRepo{st} }
func (st *Store) Profiles() repository.ProfileRepository               { return profileRepo{st} }
func (st *Store) LenderDocuments() repository.LenderDocumentRepository { return slotRepo{st} }
func (st *Store) Documents() repository.DocumentRepository             { return documentRepo{st} }

func (st *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if st.inTx {
		return fn(st)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	st.s.txMu.Lock()
	defer st.s.txMu.Unlock()

	st.s.mu.RLock()
	snapshot := st.s.data.clone()
	st.s.mu.RUnlock()

	restore := func() {
		st.s.mu.Lock()
		st.s.data = snapshot
		st.s.mu.Unlock()
	}
	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
	}()

	if err := fn(&Store{s: st.s, inTx: true}); err != nil {
		restore()
		return err
	}
	return nil
}

// write runs fn under the write lock. Outside a transaction it also waits for any
// running transaction so a rollback cannot discard the write.
func (st *Store) write(fn func(t *tables) error) error {
	if !st.inTx {
		st.s.txMu.Lock()
		defer st.s.txMu.Unlock()
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return fn(st.s.data)
}

func (st *Store) read(fn func(t *tables)) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	fn(st.s.data)
}

type lenderRepo struct{ st *Store }

func (r lenderRepo) Create(ctx context.Context, l *model.Lender) (*model.Lender, error) {
	out := *l
	err := r.st.write(func(t *tables) error {
		if _, ok := t.lenders[l.ID]; ok {
			return fmt.Errorf("%w: lender %s", repository.ErrConflict, l.ID)
		}
		t.lenders[l.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r lenderRepo) FindByID(ctx context.Context, id string) (*model.Lender, error) {
	var (
		l  model.Lender
		ok bool
	)
	r.st.read(func(t *tables) { l, ok = t.lenders[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r lenderRepo) List(ctx context.Context) ([]model.Lender, error) {
	items := make([]model.Lender, 0)
	r.st.read(func(t *tables) {
		for _, l := range t.lenders {
			items = append(items, l)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

type profileRepo struct{ st *Store }

func (r profileRepo) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	out := *p
	err := r.st.write(func(t *tables) error {
		if _, ok := t.profiles[p.UserID]; ok {
			return fmt.Errorf("%w: profile %s", repository.ErrConflict, p.UserID)
		}
		if p.LenderID != nil {
			if _, ok := t.lenders[*p.LenderID]; !ok {
				return fmt.Errorf("%w: lender %s", repository.ErrNotFound, *p.LenderID)
			}
		}
		t.profiles[p.UserID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r profileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var (
		p  model.Profile
		ok bool
	)
	r.st.read(func(t *tables) { p, ok = t.profiles[userID] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r profileRepo) SetLender(ctx context.Context, userID string, lenderID *string) error {
	return r.st.write(func(t *tables) error {
		p, ok := t.profiles[userID]
		if !ok {
			return repository.ErrNotFound
		}
		if lenderID != nil {
			if _, ok := t.lenders[*lenderID]; !ok {
				return fmt.Errorf("%w: lender %s", repository.ErrNotFound, *lenderID)
			}
			id := *lenderID
			p.LenderID = &id
		} else {
			p.LenderID = nil
		}
		t.profiles[userID] = p
		return nil
	})
}

type slotRepo struct{ st *Store }

func (r slotRepo) Create(ctx context.Context, ld *model.LenderDocument) (*model.LenderDocument, error) {
	out := *ld
	err := r.st.write(func(t *tables) error {
		if _, ok := t.lenders[ld.LenderID]; !ok {
			return fmt.Errorf("%w: lender %s", repository.ErrNotFound, ld.LenderID)
		}
		if _, ok := t.slots[ld.ID]; ok {
			return fmt.Errorf("%w: lender document %s", repository.ErrConflict, ld.ID)
		}
		for _, other := range t.slots {
			if other.LenderID == ld.LenderID && model.NormalizeSlotName(other.Name) == model.NormalizeSlotName(ld.Name) {
				return fmt.Errorf("%w: lender document name %q", repository.ErrConflict, ld.Name)
			}
		}
		t.slots[ld.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r slotRepo) FindByID(ctx context.Context, id string) (*model.LenderDocument, error) {
	var (
		ld model.LenderDocument
		ok bool
	)
	r.st.read(func(t *tables) { ld, ok = t.slots[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ld, nil
}

// Lock is FindByID: transactions are already serialized store-wide.
func (r slotRepo) Lock(ctx context.Context, id string) (*model.LenderDocument, error) {
	return r.FindByID(ctx, id)
}

func (r slotRepo) List(ctx context.Context, f repository.LenderDocumentFilter) ([]model.LenderDocument, error) {
	items := make([]model.LenderDocument, 0)
	r.st.read(func(t *tables) {
		for _, ld := range t.slots {
			if f.LenderID != "" && ld.LenderID != f.LenderID {
				continue
			}
			items = append(items, ld)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r slotRepo) SetActive(ctx context.Context, id string, documentID string, version int) error {
	return r.st.write(func(t *tables) error {
		ld, ok := t.slots[id]
		if !ok {
			return repository.ErrNotFound
		}
		doc, ok := t.documents[documentID]
		if !ok || doc.LenderDocumentID != id {
			return fmt.Errorf("%w: document %s", repository.ErrNotFound, documentID)
		}
		ld.ActiveDocumentID = &doc.ID
		ld.ActiveVersion = version
		t.slots[id] = ld
		return nil
	})
}

type documentRepo struct{ st *Store }

func (r documentRepo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	out := *doc
	err := r.st.write(func(t *tables) error {
		if _, ok := t.slots[doc.LenderDocumentID]; !ok {
			return fmt.Errorf("%w: lender document %s", repository.ErrNotFound, doc.LenderDocumentID)
		}
		if _, ok := t.documents[doc.ID]; ok {
			return fmt.Errorf("%w: document %s", repository.ErrConflict, doc.ID)
		}
		for _, other := range t.documents {
			if other.StorageKey == doc.StorageKey {
				return fmt.Errorf("%w: storage key %s", repository.ErrConflict, doc.StorageKey)
			}
			if other.LenderDocumentID == doc.LenderDocumentID &&
				other.VersionMajor == doc.VersionMajor && other.VersionMinor == doc.VersionMinor {
				return fmt.Errorf("%w: version %d.%d", repository.ErrConflict, doc.VersionMajor, doc.VersionMinor)
			}
		}
		t.documents[doc.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r documentRepo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	var (
		d  model.Document
		ok bool
	)
	r.st.read(func(t *tables) { d, ok = t.documents[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r documentRepo) Latest(ctx context.Context, lenderDocumentID string) (*model.Document, error) {
	docs, err := r.List(ctx, repository.DocumentFilter{LenderDocumentID: lenderDocumentID})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return &docs[0], nil
}

func (r documentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	items := make([]model.Document, 0)
	r.st.read(func(t *tables) {
		for _, d := range t.documents {
			if f.LenderDocumentID != "" && d.LenderDocumentID != f.LenderDocumentID {
				continue
			}
			if f.LenderID != "" && t.slots[d.LenderDocumentID].LenderID != f.LenderID {
				continue
			}
			items = append(items, d)
		}
	})
	sort.Slice(items, func(i, j int) bool { return newer(items[i], items[j]) })
	return items, nil
}

// newer orders by created_at, then version, all descending.
func newer(a, b model.Document) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	if a.VersionMajor != b.VersionMajor {
		return a.VersionMajor > b.VersionMajor
	}
	if a.VersionMinor != b.VersionMinor {
		return a.VersionMinor > b.VersionMinor
	}
	return a.ID > b.ID
}
