package clients

import "context"

type Repository interface {
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	GetByEmail(ctx context.Context, email string) (Client, error)
	List(ctx context.Context) ([]Client, error)
	// Delete removes the client and its client-pet rows.
	Delete(ctx context.Context, id string) error

	// AttachPet is idempotent: an existing pairing is left as is.
	AttachPet(ctx context.Context, clientID, petID string) error
	// DetachPet succeeds even when the pairing is absent.
	DetachPet(ctx context.Context, clientID, petID string) error
	ListPetIDs(ctx context.Context, clientID string) ([]string, error)
	ListClientIDsForPet(ctx context.Context, petID string) ([]string, error)
	// RemovePetLinks drops every pairing that references the pet.
	RemovePetLinks(ctx context.Context, petID string) error
}
