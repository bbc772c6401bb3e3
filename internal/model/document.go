package model

import "time"

// Document is one immutable snapshot of a lender document.
// The content itself lives in object storage under StorageKey; the row only tracks where it is
// and which version it represents.
type Document struct {
	ID               string    `json:"id"`
	LenderDocumentID string    `json:"lender_document_id"`
	StorageBucket    string    `json:"storage_bucket"`
	StorageKey       string    `json:"storage_key"`
	VersionMajor     int       `json:"version_major"`
	VersionMinor     int       `json:"version_minor"`
	CreatedBy        *string   `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsDraft reports whether the document is an intermediate revision that was never published.
func (d *Document) IsDraft() bool {
	return d.VersionMinor > 0
}
