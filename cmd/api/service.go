package main

import (
	"context"
	"net/http"

	"github.com/rafaelmaranon/Availo/common/logger"
	"github.com/rafaelmaranon/Availo/internal/models"
	"github.com/rafaelmaranon/Availo/internal/store"
)

// Geo indexing is best-effort: records without coordinates are skipped and
// index failures only log, they never fail the write that triggered them.

func (app *Config) trackSeeking(r *http.Request, record models.SeekingRequest) {
	if app.Locations == nil {
		return
	}
	if err := app.Locations.TrackSeeking(r.Context(), record); err != nil {
		logger.Error("Failed to index seeker location",
			"id", record.ID,
			"error", err)
	}
}

func (app *Config) trackOffering(r *http.Request, record models.OfferingRequest) {
	if app.Locations == nil {
		return
	}
	if err := app.Locations.TrackOffering(r.Context(), record); err != nil {
		logger.Error("Failed to index spot location",
			"id", record.ID,
			"error", err)
	}
}

// startGeoSync drops geo index entries when their records are deleted, so
// nearby lookups never return ids the store no longer knows. Returns a stop
// function that detaches and drains the worker.
func (app *Config) startGeoSync(ctx context.Context) func() {
	sub := app.Repo.Notifier().Subscribe(models.KindSeeking, models.KindOffering)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range sub.C {
			if ev.Op != store.OpDelete {
				continue
			}

			var err error
			switch ev.Kind {
			case models.KindSeeking:
				err = app.Locations.RemoveSeeking(ctx, ev.ID)
			case models.KindOffering:
				err = app.Locations.RemoveOffering(ctx, ev.ID)
			}
			if err != nil {
				logger.Error("Failed to remove deleted record from geo index",
					"kind", ev.Kind,
					"id", ev.ID,
					"error", err)
			}
		}
	}()

	return func() {
		sub.Close()
		<-done
	}
}
