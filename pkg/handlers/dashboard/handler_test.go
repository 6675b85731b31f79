package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSnapshotSource struct {
	mock.Mock
}

func (m *mockSnapshotSource) Snapshot(ctx context.Context) (api.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(api.Snapshot), args.Error(1)
}

func fixtureSnapshot() api.Snapshot {
	bupRate := 66.7
	return api.Snapshot{
		StudyOverview: api.StudyOverview{
			Title:          "Medications for Opioid Use Disorder (MOUD) Study",
			TotalPatients:  3,
			TimepointOrder: []string{"baseline", "6_month"},
			Timepoints: map[string]api.TimepointInfo{
				"baseline": {Label: "Baseline", Description: "Study enrollment"},
				"6_month":  {Label: "6 Months", Description: "6-month follow-up"},
			},
		},
		TreatmentOutcomes: map[string]api.TreatmentOutcomes{
			"baseline": {
				Timepoint:     "baseline",
				TotalPatients: 3,
				Buprenorphine: api.FlagStat{Count: 2, Rate: &bupRate, Available: true},
			},
		},
		Datasets: map[string]api.DatasetInfo{
			"baseline": {File: "Patient-Baseline.csv", Records: 3, Columns: 5},
		},
	}
}

func TestListTimepoints(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockSnapshotSource)
		expectedStatus int
		expectedBody   []api.TimepointSummary
	}{
		{
			name: "loaded and missing waves in study order",
			setupMock: func(m *mockSnapshotSource) {
				m.On("Snapshot", mock.Anything).Return(fixtureSnapshot(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []api.TimepointSummary{
				{Key: "baseline", Label: "Baseline", Loaded: true, Patients: 3},
				{Key: "6_month", Label: "6 Months", Loaded: false, Patients: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(mockSnapshotSource)
			tt.setupMock(source)
			handler := NewHandler(source, "")

			req := httptest.NewRequest("GET", "/api/v1/timepoints", nil)
			rec := httptest.NewRecorder()

			handler.ListTimepoints(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var response []api.TimepointSummary
			err := json.NewDecoder(rec.Body).Decode(&response)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, response)

			source.AssertExpectations(t)
		})
	}
}

func TestGetOutcomes_UnknownTimepoint(t *testing.T) {
	source := new(mockSnapshotSource)
	source.On("Snapshot", mock.Anything).Return(fixtureSnapshot(), nil)
	handler := NewHandler(source, "")

	req := httptest.NewRequest("GET", "/api/v1/outcomes/12_month", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("timepoint", "12_month")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.GetOutcomes(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no data loaded for timepoint: 12_month\n", rec.Body.String())
}

func TestGetSnapshot_Unavailable(t *testing.T) {
	source := new(mockSnapshotSource)
	source.On("Snapshot", mock.Anything).Return(api.Snapshot{}, errors.New("no data loaded yet"))
	handler := NewHandler(source, "")

	req := httptest.NewRequest("GET", "/api/v1/snapshot", nil)
	rec := httptest.NewRecorder()

	handler.GetSnapshot(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "snapshot unavailable\n", rec.Body.String())
}

func TestGetArtifact_LiveSnapshotFallback(t *testing.T) {
	source := new(mockSnapshotSource)
	source.On("Snapshot", mock.Anything).Return(fixtureSnapshot(), nil)
	handler := NewHandler(source, "")

	req := httptest.NewRequest("GET", "/dashboard_data.json", nil)
	rec := httptest.NewRecorder()

	handler.GetArtifact(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "{\n  \""), "artifact rendering should be indented")

	var response api.Snapshot
	err := json.Unmarshal([]byte(body), &response)
	require.NoError(t, err)
	assert.Equal(t, fixtureSnapshot(), response)
}

func TestGetArtifact_ServesFile(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "dashboard_data.json")
	content := "{\n  \"study_overview\": {}\n}\n"
	require.NoError(t, os.WriteFile(artifact, []byte(content), 0o644))

	source := new(mockSnapshotSource)
	handler := NewHandler(source, artifact)

	req := httptest.NewRequest("GET", "/dashboard_data.json", nil)
	rec := httptest.NewRecorder()

	handler.GetArtifact(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.String())
	source.AssertNotCalled(t, "Snapshot", mock.Anything)
}
