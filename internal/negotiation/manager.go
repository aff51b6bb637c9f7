package negotiation

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/rafaelmaranon/Availo/common/errors"
	"github.com/rafaelmaranon/Availo/common/logger"
	"github.com/rafaelmaranon/Availo/internal/models"
	"github.com/rafaelmaranon/Availo/internal/store"
)

// Config tunes manager behavior.
type Config struct {
	// UniquePairs rejects a second negotiation for the same seeker/offerer
	// pair. Off by default: multiple competing threads per pair are allowed.
	UniquePairs bool
}

// Manager owns the negotiation lifecycle: creation, append-only message
// growth and guarded status transitions. Matching stays outside; callers
// decide when to open a thread.
type Manager struct {
	repo store.Repository
	cfg  Config

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(repo store.Repository, cfg Config) *Manager {
	return &Manager{
		repo:  repo,
		cfg:   cfg,
		locks: make(map[string]*sync.Mutex),
	}
}

// Start opens a negotiation between an existing seeker and offerer with one
// initial message. Either reference failing to resolve surfaces the store's
// not-found error and nothing is created.
func (m *Manager) Start(ctx context.Context, seekerID, offererID, sender, text, voice string) (models.Negotiation, error) {
	if err := validSender(sender); err != nil {
		return models.Negotiation{}, err
	}
	if text == "" {
		return models.Negotiation{}, apperrors.InvalidArg("initial message must not be empty")
	}

	if _, err := m.repo.GetSeeking(ctx, seekerID); err != nil {
		return models.Negotiation{}, err
	}
	if _, err := m.repo.GetOffering(ctx, offererID); err != nil {
		return models.Negotiation{}, err
	}

	if m.cfg.UniquePairs {
		existing, err := m.repo.ListNegotiationsByPair(ctx, seekerID, offererID)
		if err != nil {
			return models.Negotiation{}, err
		}
		if len(existing) > 0 {
			return models.Negotiation{}, apperrors.AlreadyExists(
				fmt.Sprintf("negotiation between %s and %s already exists", seekerID, offererID))
		}
	}

	now := time.Now().UnixMilli()
	neg := models.Negotiation{
		SeekerID:  seekerID,
		OffererID: offererID,
		Status:    models.NegotiationStatusPending,
		Messages: []models.Message{{
			Sender:       sender,
			Message:      text,
			VoiceMessage: voice,
			Timestamp:    now,
		}},
		CreatedAt: now,
	}

	id, err := m.repo.InsertNegotiation(ctx, neg)
	if err != nil {
		return models.Negotiation{}, err
	}
	neg.ID = id

	logger.Info("Negotiation started",
		"negotiation_id", id,
		"seeker_id", seekerID,
		"offerer_id", offererID)
	return neg, nil
}

// AddMessage appends one message with a fresh timestamp. Appends to the same
// negotiation are serialized on a per-id mutex: the store's patch is
// last-write-wins over the whole sequence, so unserialized concurrent
// appends would silently drop messages.
func (m *Manager) AddMessage(ctx context.Context, negotiationID, sender, text, voice string) (models.Message, error) {
	if err := validSender(sender); err != nil {
		return models.Message{}, err
	}
	if text == "" {
		return models.Message{}, apperrors.InvalidArg("message must not be empty")
	}

	lock := m.lockFor(negotiationID)
	lock.Lock()
	defer lock.Unlock()

	neg, err := m.repo.GetNegotiation(ctx, negotiationID)
	if err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		Sender:       sender,
		Message:      text,
		VoiceMessage: voice,
		Timestamp:    time.Now().UnixMilli(),
	}

	messages := make([]models.Message, 0, len(neg.Messages)+1)
	messages = append(messages, neg.Messages...)
	messages = append(messages, msg)

	if err := m.repo.PatchNegotiation(ctx, negotiationID, store.NegotiationPatch{Messages: messages}); err != nil {
		return models.Message{}, err
	}

	return msg, nil
}

// ListForDriver returns every negotiation referencing the driver in the
// given role. Unbounded; there is no pagination.
func (m *Manager) ListForDriver(ctx context.Context, driverID, role string) ([]models.Negotiation, error) {
	switch role {
	case models.RoleSeeker:
		return m.repo.ListNegotiationsBySeeker(ctx, driverID)
	case models.RoleOfferer:
		return m.repo.ListNegotiationsByOfferer(ctx, driverID)
	default:
		return nil, apperrors.InvalidArg(fmt.Sprintf("unknown driver role %q", role))
	}
}

// UpdateStatus performs a guarded transition. Pending threads may be
// accepted, declined or completed; accepted threads may only complete;
// declined and completed are terminal.
func (m *Manager) UpdateStatus(ctx context.Context, negotiationID string, next models.NegotiationStatus) (models.Negotiation, error) {
	lock := m.lockFor(negotiationID)
	lock.Lock()
	defer lock.Unlock()

	neg, err := m.repo.GetNegotiation(ctx, negotiationID)
	if err != nil {
		return models.Negotiation{}, err
	}

	if !canTransition(neg.Status, next) {
		return models.Negotiation{}, apperrors.FailedPrecondition(
			fmt.Sprintf("cannot transition negotiation from %s to %s", neg.Status, next))
	}

	if err := m.repo.PatchNegotiation(ctx, negotiationID, store.NegotiationPatch{Status: &next}); err != nil {
		return models.Negotiation{}, err
	}

	neg.Status = next
	logger.Info("Negotiation status updated",
		"negotiation_id", negotiationID,
		"status", string(next))
	return neg, nil
}

func canTransition(from, to models.NegotiationStatus) bool {
	switch from {
	case models.NegotiationStatusPending:
		return to == models.NegotiationStatusAccepted ||
			to == models.NegotiationStatusDeclined ||
			to == models.NegotiationStatusCompleted
	case models.NegotiationStatusAccepted:
		return to == models.NegotiationStatusCompleted
	default:
		return false
	}
}

func validSender(sender string) error {
	if sender != models.RoleSeeker && sender != models.RoleOfferer {
		return apperrors.InvalidArg(fmt.Sprintf("sender must be %q or %q", models.RoleSeeker, models.RoleOfferer))
	}
	return nil
}

// lockFor returns the append lock for a negotiation id. Locks are never
// reclaimed; the set stays as small as the number of threads seen by this
// process.
func (m *Manager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}
