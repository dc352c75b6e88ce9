package auth

import (
	"context"
	"database/sql"
	"time"
)

// Repository provides access to auth-related database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// --- Token Operations ---

// InsertToken stores a token and its IP allow-list in one transaction
func (r *Repository) InsertToken(ctx context.Context, hostelID, tokenHash, label, createdBy string, allowedIPs []string) (*Token, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Defer a rollback in case anything fails.
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tokens (hostel_id, token_hash, label, created_by) VALUES (?, ?, ?, ?)
	`, hostelID, tokenHash, label, createdBy)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if len(allowedIPs) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO token_allowed_ips (token_id, ip) VALUES (?, ?)")
		if err != nil {
			return nil, err
		}
		defer stmt.Close()
		for _, ip := range allowedIPs {
			if _, err := stmt.ExecContext(ctx, id, ip); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetTokenByID(ctx, id)
}

// GetTokenByID returns a token by ID, nil when it does not exist
func (r *Repository) GetTokenByID(ctx context.Context, id int64) (*Token, error) {
	return r.getToken(ctx, "id = ?", id)
}

// GetTokenByHash returns a token by its stored hash, nil when it does not exist
func (r *Repository) GetTokenByHash(ctx context.Context, tokenHash string) (*Token, error) {
	return r.getToken(ctx, "token_hash = ?", tokenHash)
}

func (r *Repository) getToken(ctx context.Context, where string, arg interface{}) (*Token, error) {
	var t Token
	var revokedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, hostel_id, token_hash, label, created_by, revoked_at, created_at
		FROM tokens WHERE `+where, arg).
		Scan(&t.ID, &t.HostelID, &t.TokenHash, &t.Label, &t.CreatedBy, &revokedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.RevokedAt = ScanNullableTime(revokedAt)

	ips, err := r.getTokenIPs(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.AllowedIPs = ips
	return &t, nil
}

func (r *Repository) getTokenIPs(ctx context.Context, tokenID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT ip FROM token_allowed_ips WHERE token_id = ? ORDER BY ip", tokenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, err
		}
		ips = append(ips, ip)
	}
	return ips, rows.Err()
}

// ListTokens returns the tokens of a hostel, newest first
func (r *Repository) ListTokens(ctx context.Context, hostelID string) ([]Token, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hostel_id, label, created_by, revoked_at, created_at
		FROM tokens
		WHERE hostel_id = ?
		ORDER BY created_at DESC, id DESC
	`, hostelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []Token{}
	for rows.Next() {
		var t Token
		var revokedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.HostelID, &t.Label, &t.CreatedBy, &revokedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.RevokedAt = ScanNullableTime(revokedAt)
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tokens {
		ips, err := r.getTokenIPs(ctx, tokens[i].ID)
		if err != nil {
			return nil, err
		}
		tokens[i].AllowedIPs = ips
	}
	return tokens, nil
}

// RevokeToken marks a token revoked; it reports false when no active token
// has that id
func (r *Repository) RevokeToken(ctx context.Context, id int64, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL
	`, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
