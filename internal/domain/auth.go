package domain

// Principal is the authenticated identity resolved from a request credential.
type Principal struct {
	UserID string
	Email  string
}

// TokenPair holds the two bearer credentials issued on register, login and
// refresh. Tokens are self-contained; nothing is stored server-side.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
