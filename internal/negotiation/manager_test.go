package negotiation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rafaelmaranon/Availo/common/errors"
	"github.com/rafaelmaranon/Availo/internal/models"
	"github.com/rafaelmaranon/Availo/internal/store"
)

func seedPair(t *testing.T, repo store.Repository) (seekerID, offererID string) {
	t.Helper()
	ctx := context.Background()

	seekerID, err := repo.InsertSeeking(ctx, models.SeekingRequest{
		DriverName:          "Dana",
		Destination:         "Mission district",
		ArrivalTimeEstimate: "in 10",
		Status:              models.SeekingStatusSeeking,
	})
	require.NoError(t, err)

	offererID, err = repo.InsertOffering(ctx, models.OfferingRequest{
		DriverName:          "Alex",
		LocationDescription: "Mission & 16th",
		EstimatedLeaveTime:  "in 9",
		Status:              models.OfferingStatusReady,
	})
	require.NoError(t, err)

	return seekerID, offererID
}

func TestStartCreatesPendingNegotiation(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	seekerID, offererID := seedPair(t, repo)

	neg, err := mgr.Start(context.Background(), seekerID, offererID, models.RoleSeeker, "Is the spot still free?", "")
	require.NoError(t, err)

	assert.NotEmpty(t, neg.ID)
	assert.Equal(t, models.NegotiationStatusPending, neg.Status)
	require.Len(t, neg.Messages, 1)
	assert.Equal(t, models.RoleSeeker, neg.Messages[0].Sender)
	assert.Equal(t, "Is the spot still free?", neg.Messages[0].Message)
	assert.NotZero(t, neg.Messages[0].Timestamp)

	stored, err := repo.GetNegotiation(context.Background(), neg.ID)
	require.NoError(t, err)
	assert.Equal(t, neg.SeekerID, stored.SeekerID)
}

func TestStartMissingOffererCreatesNothing(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	seekerID, _ := seedPair(t, repo)

	_, err := mgr.Start(context.Background(), seekerID, "missing", models.RoleSeeker, "hi", "")
	assert.True(t, apperrors.IsNotFound(err))

	negs, err := repo.ListNegotiationsBySeeker(context.Background(), seekerID)
	require.NoError(t, err)
	assert.Empty(t, negs)
}

func TestStartMissingSeeker(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	_, offererID := seedPair(t, repo)

	_, err := mgr.Start(context.Background(), "missing", offererID, models.RoleSeeker, "hi", "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStartRejectsBadSender(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	seekerID, offererID := seedPair(t, repo)

	_, err := mgr.Start(context.Background(), seekerID, offererID, "bystander", "hi", "")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestStartAllowsDuplicatePairsByDefault(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	seekerID, offererID := seedPair(t, repo)
	ctx := context.Background()

	_, err := mgr.Start(ctx, seekerID, offererID, models.RoleSeeker, "first", "")
	require.NoError(t, err)
	_, err = mgr.Start(ctx, seekerID, offererID, models.RoleSeeker, "second", "")
	require.NoError(t, err)

	negs, err := repo.ListNegotiationsByPair(ctx, seekerID, offererID)
	require.NoError(t, err)
	assert.Len(t, negs, 2)
}

func TestStartUniquePairsGuard(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{UniquePairs: true})
	seekerID, offererID := seedPair(t, repo)
	ctx := context.Background()

	_, err := mgr.Start(ctx, seekerID, offererID, models.RoleSeeker, "first", "")
	require.NoError(t, err)

	_, err = mgr.Start(ctx, seekerID, offererID, models.RoleOfferer, "second", "")
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))
}

func TestAddMessageAppendsInOrder(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	seekerID, offererID := seedPair(t, repo)
	ctx := context.Background()

	neg, err := mgr.Start(ctx, seekerID, offererID, models.RoleSeeker, "first", "")
	require.NoError(t, err)

	_, err = mgr.AddMessage(ctx, neg.ID, models.RoleOfferer, "second", "")
	require.NoError(t, err)
	_, err = mgr.AddMessage(ctx, neg.ID, models.RoleSeeker, "third", "voice-note")
	require.NoError(t, err)

	stored, err := repo.GetNegotiation(ctx, neg.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 3)
	assert.Equal(t, "first", stored.Messages[0].Message)
	assert.Equal(t, "second", stored.Messages[1].Message)
	assert.Equal(t, "third", stored.Messages[2].Message)
	assert.Equal(t, "voice-note", stored.Messages[2].VoiceMessage)

	for i := 1; i < len(stored.Messages); i++ {
		assert.GreaterOrEqual(t, stored.Messages[i].Timestamp, stored.Messages[i-1].Timestamp)
	}
}

func TestAddMessageUnknownNegotiation(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})

	_, err := mgr.AddMessage(context.Background(), "missing", models.RoleSeeker, "hi", "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddMessageConcurrentAppendsAllPersist(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	seekerID, offererID := seedPair(t, repo)
	ctx := context.Background()

	neg, err := mgr.Start(ctx, seekerID, offererID, models.RoleSeeker, "opening", "")
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := mgr.AddMessage(ctx, neg.ID, models.RoleOfferer, fmt.Sprintf("msg %d", i), "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := repo.GetNegotiation(ctx, neg.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, writers+1)
}

func TestListForDriver(t *testing.T) {
	repo := store.NewMemoryRepo()
	mgr := NewManager(repo, Config{})
	seekerID, offererID := seedPair(t, repo)
	ctx := context.Background()

	_, err := mgr.Start(ctx, seekerID, offererID, models.RoleSeeker, "hi", "")
	require.NoError(t, err)

	asSeeker, err := mgr.ListForDriver(ctx, seekerID, models.RoleSeeker)
	require.NoError(t, err)
	assert.Len(t, asSeeker, 1)

	asOfferer, err := mgr.ListForDriver(ctx, offererID, models.RoleOfferer)
	require.NoError(t, err)
	assert.Len(t, asOfferer, 1)

	empty, err := mgr.ListForDriver(ctx, offererID, models.RoleSeeker)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = mgr.ListForDriver(ctx, seekerID, "passenger")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.NegotiationStatus
		to      models.NegotiationStatus
		allowed bool
	}{
		{"pending to accepted", models.NegotiationStatusPending, models.NegotiationStatusAccepted, true},
		{"pending to declined", models.NegotiationStatusPending, models.NegotiationStatusDeclined, true},
		{"pending to completed", models.NegotiationStatusPending, models.NegotiationStatusCompleted, true},
		{"accepted to completed", models.NegotiationStatusAccepted, models.NegotiationStatusCompleted, true},
		{"accepted to declined", models.NegotiationStatusAccepted, models.NegotiationStatusDeclined, false},
		{"declined is terminal", models.NegotiationStatusDeclined, models.NegotiationStatusAccepted, false},
		{"completed is terminal", models.NegotiationStatusCompleted, models.NegotiationStatusPending, false},
		{"no self transition", models.NegotiationStatusPending, models.NegotiationStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := store.NewMemoryRepo()
			mgr := NewManager(repo, Config{})
			ctx := context.Background()

			id, err := repo.InsertNegotiation(ctx, models.Negotiation{
				SeekerID:  "s1",
				OffererID: "o1",
				Status:    tt.from,
			})
			require.NoError(t, err)

			neg, err := mgr.UpdateStatus(ctx, id, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, neg.Status)

				stored, err := repo.GetNegotiation(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, tt.to, stored.Status)
			} else {
				assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))

				stored, getErr := repo.GetNegotiation(ctx, id)
				require.NoError(t, getErr)
				assert.Equal(t, tt.from, stored.Status)
			}
		})
	}
}
