package models

// Identity is the authenticated user a search session acts for.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}
