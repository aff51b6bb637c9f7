package matcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmaranon/Availo/internal/models"
	"github.com/rafaelmaranon/Availo/internal/store"
)

func TestLiveRecomputesOnStoreChanges(t *testing.T) {
	repo := store.NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.InsertSeeking(ctx, models.SeekingRequest{
		DriverName:          "Dana",
		Destination:         "Mission district",
		ArrivalTimeEstimate: "arriving in 10 minutes",
		Status:              models.SeekingStatusSeeking,
		CreatedAt:           1,
	})
	require.NoError(t, err)

	live := NewLive(repo)
	require.NoError(t, live.Start(ctx))
	defer live.Stop()

	assert.Empty(t, live.Matches())

	// A compatible offerer arriving through the store should show up without
	// any explicit recompute call.
	_, err = repo.InsertOffering(ctx, models.OfferingRequest{
		DriverName:          "Alex",
		LocationDescription: "Mission & 16th",
		EstimatedLeaveTime:  "leaving in 9 minutes",
		Status:              models.OfferingStatusReady,
		CreatedAt:           2,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(live.Matches()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	m := live.Matches()[0]
	assert.Equal(t, VerdictGoodMatch, m.Verdict)
	assert.Equal(t, "Dana", m.Seeker.DriverName)
	assert.Equal(t, "Alex", m.Offerer.DriverName)
}

func TestLiveExcludesCompletedRecords(t *testing.T) {
	repo := store.NewMemoryRepo()
	ctx := context.Background()

	seekerID, err := repo.InsertSeeking(ctx, models.SeekingRequest{
		DriverName:          "Dana",
		Destination:         "Mission district",
		ArrivalTimeEstimate: "in 10",
		Status:              models.SeekingStatusSeeking,
		CreatedAt:           1,
	})
	require.NoError(t, err)

	_, err = repo.InsertOffering(ctx, models.OfferingRequest{
		DriverName:          "Alex",
		LocationDescription: "Mission & 16th",
		EstimatedLeaveTime:  "in 9",
		Status:              models.OfferingStatusReady,
		CreatedAt:           2,
	})
	require.NoError(t, err)

	live := NewLive(repo)
	require.NoError(t, live.Start(ctx))
	defer live.Stop()

	require.Len(t, live.Matches(), 1)

	completed := models.SeekingStatusCompleted
	require.NoError(t, repo.PatchSeeking(ctx, seekerID, store.SeekingPatch{Status: &completed}))

	require.Eventually(t, func() bool {
		return len(live.Matches()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLiveMatchedSeekersStayVisible(t *testing.T) {
	repo := store.NewMemoryRepo()
	ctx := context.Background()

	seekerID, err := repo.InsertSeeking(ctx, models.SeekingRequest{
		DriverName:          "Dana",
		Destination:         "Mission district",
		ArrivalTimeEstimate: "in 10",
		Status:              models.SeekingStatusSeeking,
		CreatedAt:           1,
	})
	require.NoError(t, err)

	_, err = repo.InsertOffering(ctx, models.OfferingRequest{
		DriverName:          "Alex",
		LocationDescription: "Mission & 16th",
		EstimatedLeaveTime:  "in 9",
		Status:              models.OfferingStatusReady,
		CreatedAt:           2,
	})
	require.NoError(t, err)

	live := NewLive(repo)
	require.NoError(t, live.Start(ctx))
	defer live.Stop()

	// Only completed is terminal; a matched seeker still appears in the set.
	matched := models.SeekingStatusMatched
	require.NoError(t, repo.PatchSeeking(ctx, seekerID, store.SeekingPatch{Status: &matched}))

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, live.Matches(), 1)
}
