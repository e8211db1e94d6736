package kafka

const PatternUserSignedOut = "user.signed_out"

// IdentityEvent is the envelope published by the identity provider.
type IdentityEvent struct {
	Pattern string            `json:"pattern"`
	Data    IdentityEventData `json:"data"`
}

type IdentityEventData struct {
	UserID string `json:"user_id"`
}
