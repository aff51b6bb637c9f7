package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmaranon/Availo/internal/models"
	"github.com/rafaelmaranon/Availo/internal/store"
)

func TestRunSeedsDemoRecords(t *testing.T) {
	repo := store.NewMemoryRepo()
	seeder := NewSeeder(repo)

	res, err := seeder.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Offerers)
	assert.Equal(t, 2, res.Seekers)

	offerings, err := repo.ListOffering(context.Background())
	require.NoError(t, err)
	assert.Len(t, offerings, 5)
	for _, o := range offerings {
		assert.NotEmpty(t, o.ID)
		assert.NotNil(t, o.Lat)
		assert.NotNil(t, o.Lng)
	}
}

func TestRunClearsExistingData(t *testing.T) {
	repo := store.NewMemoryRepo()
	ctx := context.Background()

	seekerID, err := repo.InsertSeeking(ctx, models.SeekingRequest{DriverName: "Old", Status: models.SeekingStatusSeeking})
	require.NoError(t, err)
	offererID, err := repo.InsertOffering(ctx, models.OfferingRequest{DriverName: "Old", Status: models.OfferingStatusReady})
	require.NoError(t, err)
	_, err = repo.InsertNegotiation(ctx, models.Negotiation{
		SeekerID:  seekerID,
		OffererID: offererID,
		Status:    models.NegotiationStatusPending,
	})
	require.NoError(t, err)

	_, err = NewSeeder(repo).Run(ctx)
	require.NoError(t, err)

	_, err = repo.GetSeeking(ctx, seekerID)
	assert.Error(t, err)

	negs, err := repo.ListNegotiationsByOfferer(ctx, offererID)
	require.NoError(t, err)
	assert.Empty(t, negs)

	seeking, err := repo.ListSeeking(ctx)
	require.NoError(t, err)
	assert.Len(t, seeking, 2)
}

func TestRunIsRepeatable(t *testing.T) {
	repo := store.NewMemoryRepo()
	seeder := NewSeeder(repo)
	ctx := context.Background()

	_, err := seeder.Run(ctx)
	require.NoError(t, err)
	res, err := seeder.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Offerers)

	offerings, err := repo.ListOffering(ctx)
	require.NoError(t, err)
	assert.Len(t, offerings, 5)
}
