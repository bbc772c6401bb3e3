package model

import "time"

// Profile associates an externally managed user with a lender.
type Profile struct {
	UserID    string    `json:"user_id"`
	LenderID  *string   `json:"lender_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Permission names understood by the API.
const (
	PermReadDocument         = "read_document"
	PermDraftDocument        = "draft_document"
	PermPublishDocument      = "publish_document"
	PermCreateLenderDocument = "create_lender_document"
)

// Actor is the identity on whose behalf an operation runs.
// It is resolved by the HTTP layer from gateway headers; the core only reads it.
type Actor struct {
	UserID      string   `json:"user_id"`
	LenderID    string   `json:"lender_id"`
	Superuser   bool     `json:"superuser"`
	Permissions []string `json:"permissions"`
}

// HasPerm reports whether the actor holds perm. Superusers hold every permission.
func (a Actor) HasPerm(perm string) bool {
	if a.Superuser {
		return true
	}
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// CanAccessLender reports whether the actor may see data owned by lenderID.
func (a Actor) CanAccessLender(lenderID string) bool {
	return a.Superuser || (a.LenderID != "" && a.LenderID == lenderID)
}
