package store

import (
	"context"

	"github.com/rafaelmaranon/Availo/internal/models"
)

// SeekingPatch describes a partial update; nil fields are left untouched.
type SeekingPatch struct {
	Status *models.SeekingStatus
}

// OfferingPatch describes a partial update; nil fields are left untouched.
type OfferingPatch struct {
	Status *models.OfferingStatus
}

// NegotiationPatch describes a partial update; nil fields are left untouched.
// Messages replaces the whole sequence when non-nil (last write wins at the
// store; callers serialize appends per negotiation id).
type NegotiationPatch struct {
	Status   *models.NegotiationStatus
	Messages []models.Message
}

// Repository is the Record Store contract: per-kind insert, get, query, patch
// and delete, each atomic on its own, with no cross-operation transactions.
// Every successful write is announced through the Notifier.
type Repository interface {
	PingContext(ctx context.Context) error
	Notifier() *Notifier

	InsertSeeking(ctx context.Context, req models.SeekingRequest) (string, error)
	GetSeeking(ctx context.Context, id string) (models.SeekingRequest, error)
	ListSeeking(ctx context.Context) ([]models.SeekingRequest, error)
	PatchSeeking(ctx context.Context, id string, patch SeekingPatch) error
	DeleteSeeking(ctx context.Context, id string) error

	InsertOffering(ctx context.Context, req models.OfferingRequest) (string, error)
	GetOffering(ctx context.Context, id string) (models.OfferingRequest, error)
	ListOffering(ctx context.Context) ([]models.OfferingRequest, error)
	PatchOffering(ctx context.Context, id string, patch OfferingPatch) error
	DeleteOffering(ctx context.Context, id string) error

	InsertNegotiation(ctx context.Context, neg models.Negotiation) (string, error)
	GetNegotiation(ctx context.Context, id string) (models.Negotiation, error)
	ListNegotiationsBySeeker(ctx context.Context, seekerID string) ([]models.Negotiation, error)
	ListNegotiationsByOfferer(ctx context.Context, offererID string) ([]models.Negotiation, error)
	ListNegotiationsByPair(ctx context.Context, seekerID, offererID string) ([]models.Negotiation, error)
	PatchNegotiation(ctx context.Context, id string, patch NegotiationPatch) error
	DeleteNegotiation(ctx context.Context, id string) error
}
