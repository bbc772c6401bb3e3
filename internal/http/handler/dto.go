package handler

import (
	"fmt"
	"time"

	"docman/internal/model"
)

type documentResponse struct {
	ID               string    `json:"id"`
	LenderDocumentID string    `json:"lender_document_id"`
	Version          string    `json:"version"`
	VersionMajor     int       `json:"version_major"`
	VersionMinor     int       `json:"version_minor"`
	StorageBucket    string    `json:"storage_bucket"`
	StorageKey       string    `json:"storage_key"`
	CreatedBy        *string   `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	Content          *string   `json:"content,omitempty"`
}

func toDocumentResponse(d *model.Document) documentResponse {
	return documentResponse{
		ID:               d.ID,
		LenderDocumentID: d.LenderDocumentID,
		Version:          fmt.Sprintf("%d.%d", d.VersionMajor, d.VersionMinor),
		VersionMajor:     d.VersionMajor,
		VersionMinor:     d.VersionMinor,
		StorageBucket:    d.StorageBucket,
		StorageKey:       d.StorageKey,
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
	}
}

type documentListResponse struct {
	Items []documentResponse `json:"data"`
}

type versionChangeResponse struct {
	Document documentResponse `json:"document"`
	Content  string           `json:"content,omitempty"`
	Changed  bool             `json:"changed"`
}

type createDraftRequest struct {
	LenderDocumentID string `json:"lender_document_id"`
	Content          string `json:"content"`
}

type lenderDocumentResponse struct {
	ID               string    `json:"id"`
	LenderID         string    `json:"lender_id"`
	Name             string    `json:"name"`
	ActiveDocumentID *string   `json:"active_document_id"`
	ActiveVersion    int       `json:"active_version"` // -1 until the first publish
	CreatedAt        time.Time `json:"created_at"`
}

func toLenderDocumentResponse(ld *model.LenderDocument) lenderDocumentResponse {
	res := lenderDocumentResponse{
		ID:               ld.ID,
		LenderID:         ld.LenderID,
		Name:             ld.Name,
		ActiveDocumentID: ld.ActiveDocumentID,
		ActiveVersion:    -1,
		CreatedAt:        ld.CreatedAt,
	}
	if ld.IsPublished() {
		res.ActiveVersion = ld.ActiveVersion
	}
	return res
}

type lenderDocumentListResponse struct {
	Items []lenderDocumentResponse `json:"data"`
}

type createLenderDocumentRequest struct {
	LenderID string `json:"lender_id"`
	Name     string `json:"name"`
}

type lenderListResponse struct {
	Items []model.Lender `json:"data"`
}

type createLenderRequest struct {
	Name string `json:"name"`
}

type assignLenderRequest struct {
	LenderID string `json:"lender_id"`
}
