package postgres

import (
	"context"
	"database/sql"

	"vet-clinic-api/internal/domain/clients"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (
			id, fullname, address, age, email, number,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.Fullname,
		c.Address,
		toNullInt(c.Age),
		c.Email,
		c.Number,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return clients.ErrEmailTaken
	}
	return err
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	if !isUUID(c.ID) {
		return clients.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET
			fullname = $2,
			address = $3,
			age = $4,
			email = $5,
			number = $6,
			updated_at = $7
		WHERE id = $1
	`,
		c.ID,
		c.Fullname,
		c.Address,
		toNullInt(c.Age),
		c.Email,
		c.Number,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return clients.ErrEmailTaken
		}
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clients.ErrNotFound
	}
	return nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	if !isUUID(id) {
		return clients.Client{}, clients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, fullname, address, age, email, number, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id)
	return scanClient(row)
}

func (r *ClientsRepo) GetByEmail(ctx context.Context, email string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, fullname, address, age, email, number, created_at, updated_at
		FROM clients
		WHERE email = $1
	`, email)
	return scanClient(row)
}

func (r *ClientsRepo) List(ctx context.Context) ([]clients.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, fullname, address, age, email, number, created_at, updated_at
		FROM clients
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return clients.ErrNotFound
	}

	// client_pets rows go with it (ON DELETE CASCADE).
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clients.ErrNotFound
	}
	return nil
}

func (r *ClientsRepo) AttachPet(ctx context.Context, clientID, petID string) error {
	if !isUUID(clientID) || !isUUID(petID) {
		return clients.ErrNotFound
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_pets (client_id, pet_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (client_id, pet_id) DO NOTHING
	`, clientID, petID)
	return err
}

func (r *ClientsRepo) DetachPet(ctx context.Context, clientID, petID string) error {
	// Detach of an absent pairing is a no-op, and a malformed id can
	// never name a pairing.
	if !isUUID(clientID) || !isUUID(petID) {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM client_pets WHERE client_id = $1 AND pet_id = $2
	`, clientID, petID)
	return err
}

func (r *ClientsRepo) ListPetIDs(ctx context.Context, clientID string) ([]string, error) {
	if !isUUID(clientID) {
		return []string{}, nil
	}
	return queryIDs(ctx, r.db, `
		SELECT pet_id FROM client_pets WHERE client_id = $1 ORDER BY created_at ASC
	`, clientID)
}

func (r *ClientsRepo) ListClientIDsForPet(ctx context.Context, petID string) ([]string, error) {
	if !isUUID(petID) {
		return []string{}, nil
	}
	return queryIDs(ctx, r.db, `
		SELECT client_id FROM client_pets WHERE pet_id = $1 ORDER BY created_at ASC
	`, petID)
}

func (r *ClientsRepo) RemovePetLinks(ctx context.Context, petID string) error {
	if !isUUID(petID) {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM client_pets WHERE pet_id = $1`, petID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (clients.Client, error) {
	var c clients.Client
	var age sql.NullInt64
	if err := row.Scan(
		&c.ID,
		&c.Fullname,
		&c.Address,
		&age,
		&c.Email,
		&c.Number,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return clients.Client{}, clients.ErrNotFound
		}
		return clients.Client{}, err
	}
	if age.Valid {
		v := int(age.Int64)
		c.Age = &v
	}
	return c, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func queryIDs(ctx context.Context, db *sql.DB, query string, arg any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
