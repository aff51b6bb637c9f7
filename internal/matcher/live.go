package matcher

import (
	"context"
	"sort"
	"sync"

	"github.com/rafaelmaranon/Availo/common/logger"
	"github.com/rafaelmaranon/Availo/internal/models"
	"github.com/rafaelmaranon/Availo/internal/store"
)

// Live maintains the current candidate set by subscribing to Record Store
// change events for the two driver kinds and recomputing the full snapshot
// on every event. There is no persisted match state; the set is always
// derived from the store.
type Live struct {
	repo store.Repository

	mu      sync.RWMutex
	matches []Match

	sub  *store.Subscription
	done chan struct{}
}

func NewLive(repo store.Repository) *Live {
	return &Live{repo: repo}
}

// Start computes the initial candidate set and begins reacting to changes.
func (l *Live) Start(ctx context.Context) error {
	if err := l.Recompute(ctx); err != nil {
		return err
	}

	l.sub = l.repo.Notifier().Subscribe(models.KindSeeking, models.KindOffering)
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		for ev := range l.sub.C {
			if err := l.Recompute(context.Background()); err != nil {
				logger.Error("Match recompute failed",
					"kind", ev.Kind,
					"record_id", ev.ID,
					"error", err)
			}
		}
	}()

	return nil
}

// Stop detaches from the store and waits for the worker to drain.
func (l *Live) Stop() {
	if l.sub == nil {
		return
	}
	l.sub.Close()
	<-l.done
}

// Recompute rebuilds the candidate set from the current store snapshot.
// Idempotent: an unchanged snapshot yields an identical set.
func (l *Live) Recompute(ctx context.Context) error {
	seekers, err := l.repo.ListSeeking(ctx)
	if err != nil {
		return err
	}
	offerers, err := l.repo.ListOffering(ctx)
	if err != nil {
		return err
	}

	active := activeSeekers(seekers)
	available := availableOfferers(offerers)

	// Store listings carry no ordering guarantee; pin one down so the
	// derived view is stable across recomputes.
	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt != active[j].CreatedAt {
			return active[i].CreatedAt < active[j].CreatedAt
		}
		return active[i].ID < active[j].ID
	})
	sort.Slice(available, func(i, j int) bool {
		if available[i].CreatedAt != available[j].CreatedAt {
			return available[i].CreatedAt < available[j].CreatedAt
		}
		return available[i].ID < available[j].ID
	})

	matches := FindMatches(active, available)

	l.mu.Lock()
	l.matches = matches
	l.mu.Unlock()

	return nil
}

// Matches returns the current candidate set.
func (l *Live) Matches() []Match {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Match, len(l.matches))
	copy(out, l.matches)
	return out
}

func activeSeekers(seekers []models.SeekingRequest) []models.SeekingRequest {
	out := make([]models.SeekingRequest, 0, len(seekers))
	for _, s := range seekers {
		if s.Status != models.SeekingStatusCompleted {
			out = append(out, s)
		}
	}
	return out
}

func availableOfferers(offerers []models.OfferingRequest) []models.OfferingRequest {
	out := make([]models.OfferingRequest, 0, len(offerers))
	for _, o := range offerers {
		if o.Status != models.OfferingStatusCompleted {
			out = append(out, o)
		}
	}
	return out
}
