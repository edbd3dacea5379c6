package types

// Identity is the authenticated caller as extracted from a verified bearer token
type Identity struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
}
