package admins

import "context"

type Repository interface {
	Create(ctx context.Context, a Admin) error
	GetByID(ctx context.Context, id string) (Admin, error)
	GetByUsername(ctx context.Context, username string) (Admin, error)
	GetByEmail(ctx context.Context, email string) (Admin, error)

	// Issued-token store; a token is valid while its id is present.
	SaveToken(ctx context.Context, tokenID, adminID string) error
	DeleteToken(ctx context.Context, tokenID string) error
	TokenAdminID(ctx context.Context, tokenID string) (string, error)
}
