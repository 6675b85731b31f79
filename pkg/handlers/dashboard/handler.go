package dashboard

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SnapshotSource hands out the snapshot currently being served. Watch mode
// swaps the value behind it between requests, so handlers never cache it.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (api.Snapshot, error)
}

type Handler struct {
	snapshots SnapshotSource
	artifact  string
}

// NewHandler builds the dashboard handler. artifactPath may be empty, in
// which case /dashboard_data.json is rendered from the live snapshot.
func NewHandler(snapshots SnapshotSource, artifactPath string) *Handler {
	return &Handler{
		snapshots: snapshots,
		artifact:  artifactPath,
	}
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	snap, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load snapshot")
		http.Error(w, "snapshot unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(snap)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode snapshot")
	}
}

func (h *Handler) ListTimepoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	snap, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load snapshot")
		http.Error(w, "snapshot unavailable", http.StatusServiceUnavailable)
		return
	}

	overview := snap.StudyOverview
	response := make([]api.TimepointSummary, 0, len(overview.TimepointOrder))
	for _, key := range overview.TimepointOrder {
		summary := api.TimepointSummary{
			Key:   key,
			Label: overview.Timepoints[key].Label,
		}
		if ds, ok := snap.Datasets[key]; ok {
			summary.Loaded = true
			summary.Patients = ds.Records
		}
		response = append(response, summary)
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode timepoints")
	}
}

func (h *Handler) GetOutcomes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	timepoint := chi.URLParam(r, "timepoint")

	snap, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load snapshot")
		http.Error(w, "snapshot unavailable", http.StatusServiceUnavailable)
		return
	}

	outcomes, ok := snap.TreatmentOutcomes[timepoint]
	if !ok {
		http.Error(w, "no data loaded for timepoint: "+timepoint, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(outcomes)
	if err != nil {
		logger.Error().
			Err(err).
			Str("timepoint", timepoint).
			Msg("failed to encode outcomes")
	}
}

// GetArtifact serves the snapshot the way the exporter writes it, so the
// static dashboard can fetch /dashboard_data.json next to its assets.
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	if h.artifact != "" {
		http.ServeFile(w, r, h.artifact)
		return
	}

	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	snap, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load snapshot")
		http.Error(w, "snapshot unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(snap)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode artifact")
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode health response")
	}
}
