package postgres

import (
	"context"
	"database/sql"

	"vet-clinic-api/internal/domain/admins"
)

type AdminsRepo struct {
	db *sql.DB
}

func NewAdminsRepo(db *sql.DB) *AdminsRepo {
	return &AdminsRepo{db: db}
}

func (r *AdminsRepo) Create(ctx context.Context, a admins.Admin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (
			id, name, username, email, password_hash,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		a.ID,
		a.Name,
		a.Username,
		a.Email,
		a.PasswordHash,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AdminsRepo) GetByID(ctx context.Context, id string) (admins.Admin, error) {
	if !isUUID(id) {
		return admins.Admin{}, admins.ErrNotFound
	}
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *AdminsRepo) GetByUsername(ctx context.Context, username string) (admins.Admin, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

func (r *AdminsRepo) GetByEmail(ctx context.Context, email string) (admins.Admin, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *AdminsRepo) get(ctx context.Context, where string, arg any) (admins.Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, username, email, password_hash, created_at, updated_at
		FROM admins `+where, arg)

	var a admins.Admin
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return admins.Admin{}, admins.ErrNotFound
		}
		return admins.Admin{}, err
	}
	return a, nil
}

func (r *AdminsRepo) SaveToken(ctx context.Context, tokenID, adminID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_tokens (token_id, admin_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (token_id) DO NOTHING
	`, tokenID, adminID)
	return err
}

func (r *AdminsRepo) DeleteToken(ctx context.Context, tokenID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admin_tokens WHERE token_id = $1`, tokenID)
	return err
}

func (r *AdminsRepo) TokenAdminID(ctx context.Context, tokenID string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT admin_id FROM admin_tokens WHERE token_id = $1
	`, tokenID)

	var adminID string
	if err := row.Scan(&adminID); err != nil {
		if err == sql.ErrNoRows {
			return "", admins.ErrTokenRevoked
		}
		return "", err
	}
	return adminID, nil
}
