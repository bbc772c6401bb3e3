package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docman/internal/metrics"
	"docman/internal/model"
	"docman/internal/repository"
	"docman/internal/storage"
)

var tracer = otel.Tracer("docman/internal/service")

// DocumentContent is a document together with the content held in the blob store.
type DocumentContent struct {
	Document *model.Document
	Content  string
}

// DocumentService defines the versioning use cases of a lender document.
type DocumentService interface {
	// CreateDraft stores content as the next minor version of the slot.
	// The blob is written before the row; a failed write leaves no row behind.
	CreateDraft(ctx context.Context, actor model.Actor, lenderDocumentID, content string) (*model.Document, error)

	// Publish makes documentID the slot's active document by copying it to a new row at the
	// next major version. Publishing the active document changes nothing and reports false.
	// The result carries the content so callers need no second read.
	Publish(ctx context.Context, actor model.Actor, documentID string) (*DocumentContent, bool, error)

	// Revert creates a new draft holding the content of documentID. Reverting the active
	// document changes nothing and reports false.
	Revert(ctx context.Context, actor model.Actor, documentID string) (*DocumentContent, bool, error)

	// Get returns a document's metadata.
	Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error)

	// GetContent returns a document and its content.
	GetContent(ctx context.Context, actor model.Actor, id string) (*DocumentContent, error)

	// List returns the documents visible to actor, newest first. An empty lenderDocumentID lists every slot.
	List(ctx context.Context, actor model.Actor, lenderDocumentID string) ([]model.Document, error)
}

// DocumentServiceConfig carries the settings of a DocumentService.
type DocumentServiceConfig struct {
	// Environment prefixes every blob key.
	Environment string
	// MaxContentBytes bounds draft content; zero disables the check.
	MaxContentBytes int64
	Logger          *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type documentService struct {
	store    repository.Store
	blobs    storage.Storage
	env      string
	maxBytes int64
	log      *slog.Logger
	now      func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store repository.Store, blobs storage.Storage, cfg DocumentServiceConfig) DocumentService {
	s := &documentService{
		store:    store,
		blobs:    blobs,
		env:      cfg.Environment,
		maxBytes: cfg.MaxContentBytes,
		log:      cfg.Logger,
		now:      cfg.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *documentService) CreateDraft(ctx context.Context, actor model.Actor, lenderDocumentID, content string) (doc *model.Document, err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.CreateDraft",
		trace.WithAttributes(attribute.String("lender_document.id", lenderDocumentID)))
	defer func() { s.finish(ctx, span, "create_draft", err, true) }()

	if !actor.HasPerm(model.PermDraftDocument) {
		return nil, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermDraftDocument)
	}
	if lenderDocumentID == "" {
		return nil, fmt.Errorf("%w: lender_document_id is required", ErrInvalidRequest)
	}
	if err := s.checkContent(content); err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		slot, err := s.lockSlot(ctx, tx, actor, lenderDocumentID)
		if err != nil {
			return err
		}
		doc, err = s.createDraft(ctx, tx, actor, slot, content)
		return err
	})
	if err != nil {
		return nil, txErr(err)
	}

	s.log.InfoContext(ctx, "draft created",
		"document_id", doc.ID,
		"lender_document_id", doc.LenderDocumentID,
		"version", version(doc),
		"user_id", actor.UserID,
	)
	return doc, nil
}

func (s *documentService) Publish(ctx context.Context, actor model.Actor, documentID string) (res *DocumentContent, changed bool, err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Publish",
		trace.WithAttributes(attribute.String("document.id", documentID)))
	defer func() { s.finish(ctx, span, "publish", err, changed) }()

	if !actor.HasPerm(model.PermPublishDocument) {
		return nil, false, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermPublishDocument)
	}
	if documentID == "" {
		return nil, false, fmt.Errorf("%w: document id is required", ErrInvalidRequest)
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		target, slot, err := s.lockTarget(ctx, tx, actor, documentID)
		if err != nil {
			return err
		}
		content, err := s.blobs.Get(ctx, target.StorageKey)
		if err != nil {
			return blobErr(err, target.StorageKey)
		}
		if slot.IsActive(target.ID) {
			res, changed = &DocumentContent{Document: target, Content: content}, false
			return nil
		}

		major := 1
		if slot.IsPublished() {
			major = slot.ActiveVersion + 1
		}
		published, err := s.writeVersion(ctx, tx, actor, slot, major, 0, content)
		if err != nil {
			return err
		}
		if err := tx.LenderDocuments().SetActive(ctx, slot.ID, published.ID, major); err != nil {
			return repoErr(err, "lender document")
		}
		res, changed = &DocumentContent{Document: published, Content: content}, true
		return nil
	})
	if err != nil {
		return nil, false, txErr(err)
	}

	if changed {
		doc := res.Document
		s.log.InfoContext(ctx, "document published",
			"document_id", doc.ID,
			"source_document_id", documentID,
			"lender_document_id", doc.LenderDocumentID,
			"version", version(doc),
			"user_id", actor.UserID,
		)
	}
	return res, changed, nil
}

func (s *documentService) Revert(ctx context.Context, actor model.Actor, documentID string) (res *DocumentContent, changed bool, err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Revert",
		trace.WithAttributes(attribute.String("document.id", documentID)))
	defer func() { s.finish(ctx, span, "revert", err, changed) }()

	if !actor.HasPerm(model.PermDraftDocument) {
		return nil, false, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermDraftDocument)
	}
	if documentID == "" {
		return nil, false, fmt.Errorf("%w: document id is required", ErrInvalidRequest)
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		target, slot, err := s.lockTarget(ctx, tx, actor, documentID)
		if err != nil {
			return err
		}
		content, err := s.blobs.Get(ctx, target.StorageKey)
		if err != nil {
			return blobErr(err, target.StorageKey)
		}
		if slot.IsActive(target.ID) {
			res, changed = &DocumentContent{Document: target, Content: content}, false
			return nil
		}

		draft, err := s.createDraft(ctx, tx, actor, slot, content)
		if err != nil {
			return err
		}
		res, changed = &DocumentContent{Document: draft, Content: content}, true
		return nil
	})
	if err != nil {
		return nil, false, txErr(err)
	}

	if changed {
		doc := res.Document
		s.log.InfoContext(ctx, "document reverted",
			"document_id", doc.ID,
			"source_document_id", documentID,
			"lender_document_id", doc.LenderDocumentID,
			"version", version(doc),
			"user_id", actor.UserID,
		)
	}
	return res, changed, nil
}

func (s *documentService) Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error) {
	if !actor.HasPerm(model.PermReadDocument) {
		return nil, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermReadDocument)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidRequest)
	}

	doc, err := s.store.Documents().FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "document")
	}
	slot, err := s.store.LenderDocuments().FindByID(ctx, doc.LenderDocumentID)
	if err != nil {
		return nil, repoErr(err, "lender document")
	}
	if !actor.CanAccessLender(slot.LenderID) {
		return nil, fmt.Errorf("%w: document", ErrNotFound)
	}
	return doc, nil
}

func (s *documentService) GetContent(ctx context.Context, actor model.Actor, id string) (*DocumentContent, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.GetContent",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	content, err := s.blobs.Get(ctx, doc.StorageKey)
	if err != nil {
		err = blobErr(err, doc.StorageKey)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &DocumentContent{Document: doc, Content: content}, nil
}

func (s *documentService) List(ctx context.Context, actor model.Actor, lenderDocumentID string) ([]model.Document, error) {
	if !actor.HasPerm(model.PermReadDocument) {
		return nil, fmt.Errorf("%w: %s required", ErrPermissionDenied, model.PermReadDocument)
	}

	filter := repository.DocumentFilter{LenderDocumentID: lenderDocumentID}
	if lenderDocumentID != "" {
		slot, err := s.store.LenderDocuments().FindByID(ctx, lenderDocumentID)
		if err != nil {
			return nil, repoErr(err, "lender document")
		}
		if !actor.CanAccessLender(slot.LenderID) {
			return nil, fmt.Errorf("%w: lender document", ErrNotFound)
		}
	}
	if !actor.Superuser {
		if actor.LenderID == "" {
			return []model.Document{}, nil
		}
		filter.LenderID = actor.LenderID
	}

	docs, err := s.store.Documents().List(ctx, filter)
	if err != nil {
		return nil, repoErr(err, "documents")
	}
	return docs, nil
}

// lockSlot locks the slot row for the rest of the transaction. Slots of other lenders
// are reported as missing.
func (s *documentService) lockSlot(ctx context.Context, tx repository.Store, actor model.Actor, id string) (*model.LenderDocument, error) {
	slot, err := tx.LenderDocuments().Lock(ctx, id)
	if err != nil {
		return nil, repoErr(err, "lender document")
	}
	if !actor.CanAccessLender(slot.LenderID) {
		return nil, fmt.Errorf("%w: lender document", ErrNotFound)
	}
	return slot, nil
}

// lockTarget loads a document and locks its slot. Document rows never change, so only the
// slot needs the lock.
func (s *documentService) lockTarget(ctx context.Context, tx repository.Store, actor model.Actor, id string) (*model.Document, *model.LenderDocument, error) {
	target, err := tx.Documents().FindByID(ctx, id)
	if err != nil {
		return nil, nil, repoErr(err, "document")
	}
	slot, err := s.lockSlot(ctx, tx, actor, target.LenderDocumentID)
	if err != nil {
		return nil, nil, err
	}
	return target, slot, nil
}

func (s *documentService) createDraft(ctx context.Context, tx repository.Store, actor model.Actor, slot *model.LenderDocument, content string) (*model.Document, error) {
	latest, err := tx.Documents().Latest(ctx, slot.ID)
	if err != nil {
		return nil, repoErr(err, "latest document")
	}

	major, minor := 0, 1
	if latest != nil {
		major, minor = latest.VersionMajor, latest.VersionMinor+1
	}
	return s.writeVersion(ctx, tx, actor, slot, major, minor, content)
}

// writeVersion puts content at the version's derived key, then records the row.
func (s *documentService) writeVersion(ctx context.Context, tx repository.Store, actor model.Actor, slot *model.LenderDocument, major, minor int, content string) (*model.Document, error) {
	key := DeriveKey(s.env, slot.LenderID, slot.Name, major, minor)
	if err := s.blobs.Put(ctx, key, content); err != nil {
		return nil, fmt.Errorf("%w: put %s: %w", ErrStorageFailure, key, err)
	}

	doc := &model.Document{
		ID:               uuid.New().String(),
		LenderDocumentID: slot.ID,
		StorageBucket:    s.blobs.Bucket(),
		StorageKey:       key,
		VersionMajor:     major,
		VersionMinor:     minor,
		CreatedAt:        s.now().UTC(),
	}
	if actor.UserID != "" {
		createdBy := actor.UserID
		doc.CreatedBy = &createdBy
	}

	stored, err := tx.Documents().Create(ctx, doc)
	if err != nil {
		return nil, repoErr(err, fmt.Sprintf("document version %d.%d", major, minor))
	}
	return stored, nil
}

func (s *documentService) checkContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidRequest)
	}
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return fmt.Errorf("%w: content exceeds %d bytes", ErrInvalidRequest, s.maxBytes)
	}
	return nil
}

// finish ends a versioning span and records its outcome.
func (s *documentService) finish(ctx context.Context, span trace.Span, op string, err error, changed bool) {
	defer span.End()

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ObserveVersioning(op, metrics.OutcomeError)
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInvalidRequest) && !errors.Is(err, ErrPermissionDenied) {
			s.log.ErrorContext(ctx, "versioning operation failed", "operation", op, "error", err)
		}
	case !changed:
		span.SetAttributes(attribute.Bool("changed", false))
		metrics.ObserveVersioning(op, metrics.OutcomeNoop)
	default:
		span.SetAttributes(attribute.Bool("changed", true))
		metrics.ObserveVersioning(op, metrics.OutcomeSuccess)
	}
}

func version(d *model.Document) string {
	return fmt.Sprintf("%d.%d", d.VersionMajor, d.VersionMinor)
}
