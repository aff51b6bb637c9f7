package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/rafaelmaranon/Availo/common/errors"
	"github.com/rafaelmaranon/Availo/internal/models"
)

// MemoryRepo is the per-process Record Store. Each operation takes the write
// lock for its full duration, which gives the per-operation atomicity the
// contract requires.
type MemoryRepo struct {
	mu           sync.RWMutex
	seeking      map[string]models.SeekingRequest
	offering     map[string]models.OfferingRequest
	negotiations map[string]models.Negotiation
	notifier     *Notifier
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		seeking:      make(map[string]models.SeekingRequest),
		offering:     make(map[string]models.OfferingRequest),
		negotiations: make(map[string]models.Negotiation),
		notifier:     NewNotifier(),
	}
}

func (m *MemoryRepo) PingContext(ctx context.Context) error { return nil }

func (m *MemoryRepo) Notifier() *Notifier { return m.notifier }

func (m *MemoryRepo) InsertSeeking(ctx context.Context, req models.SeekingRequest) (string, error) {
	m.mu.Lock()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	m.seeking[req.ID] = req
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindSeeking, ID: req.ID, Op: OpInsert})
	return req.ID, nil
}

func (m *MemoryRepo) GetSeeking(ctx context.Context, id string) (models.SeekingRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.seeking[id]
	if !ok {
		return models.SeekingRequest{}, apperrors.NotFound(fmt.Sprintf("seeking request %s not found", id))
	}
	return req, nil
}

func (m *MemoryRepo) ListSeeking(ctx context.Context) ([]models.SeekingRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.SeekingRequest, 0, len(m.seeking))
	for _, req := range m.seeking {
		out = append(out, req)
	}
	return out, nil
}

func (m *MemoryRepo) PatchSeeking(ctx context.Context, id string, patch SeekingPatch) error {
	m.mu.Lock()
	req, ok := m.seeking[id]
	if !ok {
		m.mu.Unlock()
		return apperrors.NotFound(fmt.Sprintf("seeking request %s not found", id))
	}
	if patch.Status != nil {
		req.Status = *patch.Status
	}
	m.seeking[id] = req
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindSeeking, ID: id, Op: OpPatch})
	return nil
}

func (m *MemoryRepo) DeleteSeeking(ctx context.Context, id string) error {
	m.mu.Lock()
	if _, ok := m.seeking[id]; !ok {
		m.mu.Unlock()
		return apperrors.NotFound(fmt.Sprintf("seeking request %s not found", id))
	}
	delete(m.seeking, id)
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindSeeking, ID: id, Op: OpDelete})
	return nil
}

func (m *MemoryRepo) InsertOffering(ctx context.Context, req models.OfferingRequest) (string, error) {
	m.mu.Lock()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	m.offering[req.ID] = req
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindOffering, ID: req.ID, Op: OpInsert})
	return req.ID, nil
}

func (m *MemoryRepo) GetOffering(ctx context.Context, id string) (models.OfferingRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.offering[id]
	if !ok {
		return models.OfferingRequest{}, apperrors.NotFound(fmt.Sprintf("offering request %s not found", id))
	}
	return req, nil
}

func (m *MemoryRepo) ListOffering(ctx context.Context) ([]models.OfferingRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.OfferingRequest, 0, len(m.offering))
	for _, req := range m.offering {
		out = append(out, req)
	}
	return out, nil
}

func (m *MemoryRepo) PatchOffering(ctx context.Context, id string, patch OfferingPatch) error {
	m.mu.Lock()
	req, ok := m.offering[id]
	if !ok {
		m.mu.Unlock()
		return apperrors.NotFound(fmt.Sprintf("offering request %s not found", id))
	}
	if patch.Status != nil {
		req.Status = *patch.Status
	}
	m.offering[id] = req
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindOffering, ID: id, Op: OpPatch})
	return nil
}

func (m *MemoryRepo) DeleteOffering(ctx context.Context, id string) error {
	m.mu.Lock()
	if _, ok := m.offering[id]; !ok {
		m.mu.Unlock()
		return apperrors.NotFound(fmt.Sprintf("offering request %s not found", id))
	}
	delete(m.offering, id)
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindOffering, ID: id, Op: OpDelete})
	return nil
}

func (m *MemoryRepo) InsertNegotiation(ctx context.Context, neg models.Negotiation) (string, error) {
	m.mu.Lock()
	if neg.ID == "" {
		neg.ID = uuid.New().String()
	}
	neg.Messages = copyMessages(neg.Messages)
	m.negotiations[neg.ID] = neg
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindNegotiation, ID: neg.ID, Op: OpInsert})
	return neg.ID, nil
}

func (m *MemoryRepo) GetNegotiation(ctx context.Context, id string) (models.Negotiation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	neg, ok := m.negotiations[id]
	if !ok {
		return models.Negotiation{}, apperrors.NotFound(fmt.Sprintf("negotiation %s not found", id))
	}
	neg.Messages = copyMessages(neg.Messages)
	return neg, nil
}

func (m *MemoryRepo) ListNegotiationsBySeeker(ctx context.Context, seekerID string) ([]models.Negotiation, error) {
	return m.listNegotiations(func(n models.Negotiation) bool { return n.SeekerID == seekerID })
}

func (m *MemoryRepo) ListNegotiationsByOfferer(ctx context.Context, offererID string) ([]models.Negotiation, error) {
	return m.listNegotiations(func(n models.Negotiation) bool { return n.OffererID == offererID })
}

func (m *MemoryRepo) ListNegotiationsByPair(ctx context.Context, seekerID, offererID string) ([]models.Negotiation, error) {
	return m.listNegotiations(func(n models.Negotiation) bool {
		return n.SeekerID == seekerID && n.OffererID == offererID
	})
}

func (m *MemoryRepo) listNegotiations(match func(models.Negotiation) bool) ([]models.Negotiation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Negotiation, 0)
	for _, neg := range m.negotiations {
		if match(neg) {
			neg.Messages = copyMessages(neg.Messages)
			out = append(out, neg)
		}
	}
	return out, nil
}

func (m *MemoryRepo) PatchNegotiation(ctx context.Context, id string, patch NegotiationPatch) error {
	m.mu.Lock()
	neg, ok := m.negotiations[id]
	if !ok {
		m.mu.Unlock()
		return apperrors.NotFound(fmt.Sprintf("negotiation %s not found", id))
	}
	if patch.Status != nil {
		neg.Status = *patch.Status
	}
	if patch.Messages != nil {
		neg.Messages = copyMessages(patch.Messages)
	}
	m.negotiations[id] = neg
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindNegotiation, ID: id, Op: OpPatch})
	return nil
}

func (m *MemoryRepo) DeleteNegotiation(ctx context.Context, id string) error {
	m.mu.Lock()
	if _, ok := m.negotiations[id]; !ok {
		m.mu.Unlock()
		return apperrors.NotFound(fmt.Sprintf("negotiation %s not found", id))
	}
	delete(m.negotiations, id)
	m.mu.Unlock()

	m.notifier.Publish(ChangeEvent{Kind: models.KindNegotiation, ID: id, Op: OpDelete})
	return nil
}

// copyMessages keeps callers from mutating the stored message sequence
// through a shared backing array.
func copyMessages(msgs []models.Message) []models.Message {
	if msgs == nil {
		return nil
	}
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}
