package auth

// Claims is the caller identity extracted from a verified token.
type Claims struct {
	AdminID string
	TokenID string
}
