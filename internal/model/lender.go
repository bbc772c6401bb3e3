package model

import (
	"strings"
	"time"
)

// Lender is a tenant owning a set of document slots.
type Lender struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LenderDocument is a named, per-lender document slot (e.g. "Privacy Policy").
// ActiveDocumentID points at the published Document, nil until the first publish.
// ActiveVersion tracks the major version of that document (0 when never published).
type LenderDocument struct {
	ID               string    `json:"id"`
	LenderID         string    `json:"lender_id"`
	Name             string    `json:"name"`
	ActiveDocumentID *string   `json:"active_document_id"`
	ActiveVersion    int       `json:"active_version"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsPublished reports whether any document of the slot was ever published.
func (ld *LenderDocument) IsPublished() bool {
	return ld.ActiveDocumentID != nil
}

// IsActive reports whether documentID is the slot's active document.
func (ld *LenderDocument) IsActive(documentID string) bool {
	return ld.ActiveDocumentID != nil && *ld.ActiveDocumentID == documentID
}

// NormalizeSlotName removes spaces from a slot name and lowercases it. Two slots of one
// lender may not share a normalized name since it is part of every blob key.
func NormalizeSlotName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}
