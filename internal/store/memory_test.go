package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rafaelmaranon/Availo/common/errors"
	"github.com/rafaelmaranon/Availo/internal/models"
)

func nextEvent(t *testing.T, sub *Subscription) ChangeEvent {
	t.Helper()
	select {
	case ev := <-sub.C:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return ChangeEvent{}
	}
}

func TestMemoryRepoSeekingCRUD(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	id, err := repo.InsertSeeking(ctx, models.SeekingRequest{
		DriverName:          "Dana",
		Destination:         "Mission district",
		ArrivalTimeEstimate: "in 10",
		Status:              models.SeekingStatusSeeking,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetSeeking(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Dana", got.DriverName)

	matched := models.SeekingStatusMatched
	require.NoError(t, repo.PatchSeeking(ctx, id, SeekingPatch{Status: &matched}))

	got, err = repo.GetSeeking(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SeekingStatusMatched, got.Status)
	// Patch touches only status
	assert.Equal(t, "Mission district", got.Destination)

	list, err := repo.ListSeeking(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteSeeking(ctx, id))

	_, err = repo.GetSeeking(ctx, id)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMemoryRepoMissingIDs(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.GetSeeking(ctx, "nope")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.GetOffering(ctx, "nope")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.GetNegotiation(ctx, "nope")
	assert.True(t, apperrors.IsNotFound(err))

	status := models.SeekingStatusCompleted
	assert.True(t, apperrors.IsNotFound(repo.PatchSeeking(ctx, "nope", SeekingPatch{Status: &status})))
	assert.True(t, apperrors.IsNotFound(repo.DeleteSeeking(ctx, "nope")))
	assert.True(t, apperrors.IsNotFound(repo.DeleteNegotiation(ctx, "nope")))
}

func TestMemoryRepoNotifierPublishesWrites(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	sub := repo.Notifier().Subscribe(models.KindSeeking)
	defer sub.Close()

	id, err := repo.InsertSeeking(ctx, models.SeekingRequest{DriverName: "Dana", Status: models.SeekingStatusSeeking})
	require.NoError(t, err)

	ev := nextEvent(t, sub)
	assert.Equal(t, ChangeEvent{Kind: models.KindSeeking, ID: id, Op: OpInsert}, ev)

	matched := models.SeekingStatusMatched
	require.NoError(t, repo.PatchSeeking(ctx, id, SeekingPatch{Status: &matched}))
	ev = nextEvent(t, sub)
	assert.Equal(t, OpPatch, ev.Op)

	require.NoError(t, repo.DeleteSeeking(ctx, id))
	ev = nextEvent(t, sub)
	assert.Equal(t, OpDelete, ev.Op)
}

func TestMemoryRepoNotifierFiltersKinds(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	sub := repo.Notifier().Subscribe(models.KindOffering)
	defer sub.Close()

	_, err := repo.InsertSeeking(ctx, models.SeekingRequest{DriverName: "Dana"})
	require.NoError(t, err)

	offeringID, err := repo.InsertOffering(ctx, models.OfferingRequest{DriverName: "Alex"})
	require.NoError(t, err)

	// The seeking insert must not leak into an offering-only subscription.
	ev := nextEvent(t, sub)
	assert.Equal(t, models.KindOffering, ev.Kind)
	assert.Equal(t, offeringID, ev.ID)
}

func TestMemoryRepoNegotiationQueries(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	mk := func(seekerID, offererID string) string {
		id, err := repo.InsertNegotiation(ctx, models.Negotiation{
			SeekerID:  seekerID,
			OffererID: offererID,
			Status:    models.NegotiationStatusPending,
		})
		require.NoError(t, err)
		return id
	}

	first := mk("s1", "o1")
	mk("s1", "o2")
	mk("s2", "o1")

	bySeeker, err := repo.ListNegotiationsBySeeker(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, bySeeker, 2)

	byOfferer, err := repo.ListNegotiationsByOfferer(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, byOfferer, 2)

	byPair, err := repo.ListNegotiationsByPair(ctx, "s1", "o1")
	require.NoError(t, err)
	require.Len(t, byPair, 1)
	assert.Equal(t, first, byPair[0].ID)
}

func TestMemoryRepoNegotiationMessagesAreCopied(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	id, err := repo.InsertNegotiation(ctx, models.Negotiation{
		SeekerID:  "s1",
		OffererID: "o1",
		Status:    models.NegotiationStatusPending,
		Messages:  []models.Message{{Sender: models.RoleSeeker, Message: "hi", Timestamp: 1}},
	})
	require.NoError(t, err)

	got, err := repo.GetNegotiation(ctx, id)
	require.NoError(t, err)

	// Mutating the returned slice must not affect the stored record.
	got.Messages[0].Message = "tampered"

	again, err := repo.GetNegotiation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hi", again.Messages[0].Message)
}
