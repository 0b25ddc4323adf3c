package storage

import (
	"context"
	"time"
)

// Single-use tokens back password setup links. A token is consumed at most
// once; expiry is enforced at consume time and swept by ExpireTokens.

func (p *SQLProvider) CreateToken(ctx context.Context, token string, purpose string, employeeID string, expiresAt time.Time) error {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO tokens (token, purpose, employee_id, expires_at) VALUES (?, ?, ?, ?)",
		token, purpose, employeeID, expiresAt)
	return err
}

func (p *SQLProvider) ConsumeToken(ctx context.Context, token string, purpose string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		"DELETE FROM tokens WHERE token = ? AND purpose = ? AND expires_at > ?",
		token, purpose, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (p *SQLProvider) ExpireTokens(ctx context.Context, now time.Time) error {
	_, err := p.db.ExecContext(ctx, "DELETE FROM tokens WHERE expires_at <= ?", now)
	return err
}
