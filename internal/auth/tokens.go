package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

const (
	// TokenPrefix is the prefix for all generated tokens
	TokenPrefix = "mess_"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// TokenStore manages kitchen display tokens
type TokenStore struct {
	repo *Repository
}

// NewTokenStore creates a new token store
func NewTokenStore(repo *Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// GenerateToken creates a new random token with the mess_ prefix
// Format: mess_ + Base58(SHA256(random_bytes))
func (s *TokenStore) GenerateToken() (rawToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", err
	}

	hash := sha256.Sum256(randomBytes)
	rawToken = TokenPrefix + base58.Encode(hash[:])

	// Only the hash of the raw token is stored
	tokenHash = hashToken(rawToken)

	return rawToken, tokenHash, nil
}

// hashToken creates a SHA256 hash of a token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CreateToken issues a token for the hostel's kitchen display. allowedIPs may
// hold addresses or CIDR prefixes; empty means any client.
func (s *TokenStore) CreateToken(ctx context.Context, hostelID, label, createdBy string, allowedIPs []string) (*TokenWithRaw, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("token label is required")
	}
	if strings.TrimSpace(hostelID) == "" {
		return nil, fmt.Errorf("hostel is required")
	}

	canonicalIPs, err := CanonicalizeIPs(allowedIPs)
	if err != nil {
		return nil, err
	}

	rawToken, tokenHash, err := s.GenerateToken()
	if err != nil {
		return nil, err
	}

	token, err := s.repo.InsertToken(ctx, hostelID, tokenHash, label, createdBy, canonicalIPs)
	if err != nil {
		return nil, err
	}
	return &TokenWithRaw{Token: *token, RawToken: rawToken}, nil
}

// ValidateToken looks a raw token up and checks it is still active
func (s *TokenStore) ValidateToken(ctx context.Context, rawToken string) (*Token, error) {
	if !strings.HasPrefix(rawToken, TokenPrefix) {
		return nil, ErrTokenInvalid
	}
	if _, err := base58.Decode(strings.TrimPrefix(rawToken, TokenPrefix)); err != nil {
		return nil, ErrTokenInvalid
	}

	token, err := s.repo.GetTokenByHash(ctx, hashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrTokenInvalid
	}
	if token.RevokedAt != nil {
		return nil, ErrTokenRevoked
	}
	return token, nil
}

// ListTokens returns every token of a hostel, revoked ones included
func (s *TokenStore) ListTokens(ctx context.Context, hostelID string) ([]Token, error) {
	return s.repo.ListTokens(ctx, hostelID)
}

// RevokeToken revokes the token with the given id
func (s *TokenStore) RevokeToken(ctx context.Context, id int64) (bool, error) {
	return s.repo.RevokeToken(ctx, id, time.Now())
}
