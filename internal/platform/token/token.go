package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

const (
	issuer     = "vet-clinic-api"
	DefaultTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified bearer token carries.
type Claims struct {
	AdminID string
	TokenID string
}

// Manager issues and verifies paseto v4.local bearer tokens.
type Manager struct {
	key   paseto.V4SymmetricKey
	parse paseto.Parser
	ttl   time.Duration
}

// New builds a Manager from a hex-encoded 32-byte symmetric key.
// An empty key generates an ephemeral one (tokens do not survive restarts).
func New(hexKey string, ttl time.Duration) (*Manager, error) {
	var (
		key paseto.V4SymmetricKey
		err error
	)
	if strings.TrimSpace(hexKey) == "" {
		key = paseto.NewV4SymmetricKey()
	} else {
		key, err = paseto.V4SymmetricKeyFromHex(strings.TrimSpace(hexKey))
		if err != nil {
			return nil, fmt.Errorf("token: bad symmetric key: %w", err)
		}
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(issuer))
	p.AddRule(paseto.NotExpired())

	return &Manager{key: key, parse: p, ttl: ttl}, nil
}

// Issue creates a token for the admin and returns it with its token id.
// The token id is what the server stores so logout can revoke the token.
func (m *Manager) Issue(adminID string) (string, string, error) {
	if strings.TrimSpace(adminID) == "" {
		return "", "", errors.New("token: admin id required")
	}

	now := time.Now()
	jti := randHex(16)

	tok := paseto.NewToken()
	tok.SetIssuer(issuer)
	tok.SetJti(jti)
	tok.SetSubject(adminID)
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(m.ttl))

	return tok.V4Encrypt(m.key, nil), jti, nil
}

// Verify parses the token and returns its claims.
func (m *Manager) Verify(tokenStr string) (Claims, error) {
	tok, err := m.parse.ParseV4Local(m.key, tokenStr, nil)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	sub, err := tok.GetSubject()
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	jti, err := tok.GetJti()
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{AdminID: sub, TokenID: jti}, nil
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
