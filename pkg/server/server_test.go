package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/rs/zerolog"
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

func servedSnapshot() api.Snapshot {
	bupRate := 66.7
	edVisits := 1.5
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
		HealthcareUtilization: map[string]api.Utilization{
			"baseline": {
				Timepoint:            "baseline",
				TotalPatients:        3,
				AvgEDVisits:          &edVisits,
				PatientsWithEDVisits: 2,
			},
		},
		Datasets: map[string]api.DatasetInfo{
			"baseline": {File: "Patient-Baseline.csv", Records: 3, Columns: 5},
		},
	}
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(nil))

	staticDir := t.TempDir()
	indexPage := "<!doctype html><title>MOUD Dashboard</title>"
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte(indexPage), 0o644))

	artifact := filepath.Join(t.TempDir(), "dashboard_data.json")
	artifactBody := "{\n  \"study_overview\": {}\n}\n"
	require.NoError(t, os.WriteFile(artifact, []byte(artifactBody), 0o644))

	mockSource := new(mockSnapshotSource)
	mockSource.On("Snapshot", mock.Anything).Return(servedSnapshot(), nil)

	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		ArtifactPath:    artifact,
		StaticDir:       staticDir,
		Dependencies: Dependencies{
			Snapshots: mockSource,
			Logger:    logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name:           "GetSnapshot",
			path:           "/api/v1/snapshot",
			expectedStatus: http.StatusOK,
			expected:       servedSnapshot(),
			parseResponse:  unmarshalResponse[api.Snapshot](),
		},
		{
			name:           "ListTimepoints",
			path:           "/api/v1/timepoints",
			expectedStatus: http.StatusOK,
			expected: []api.TimepointSummary{
				{Key: "baseline", Label: "Baseline", Loaded: true, Patients: 3},
				{Key: "6_month", Label: "6 Months", Loaded: false, Patients: 0},
			},
			parseResponse: unmarshalResponse[[]api.TimepointSummary](),
		},
		{
			name:           "GetOutcomes",
			path:           "/api/v1/outcomes/baseline",
			expectedStatus: http.StatusOK,
			expected:       servedSnapshot().TreatmentOutcomes["baseline"],
			parseResponse:  unmarshalResponse[api.TreatmentOutcomes](),
		},
		{
			name:           "GetOutcomes_UnknownTimepoint",
			path:           "/api/v1/outcomes/12_month",
			expectedStatus: http.StatusNotFound,
			expected:       "no data loaded for timepoint: 12_month\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
		{
			name:           "GetArtifact",
			path:           "/dashboard_data.json",
			expectedStatus: http.StatusOK,
			expected:       artifactBody,
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
		{
			name:           "Healthz",
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			expected:       map[string]string{"status": "ok"},
			parseResponse:  unmarshalResponse[map[string]string](),
		},
		{
			name:           "StaticIndex",
			path:           "/index.html",
			expectedStatus: http.StatusOK,
			expected:       indexPage,
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestWebAPI_SnapshotUnavailable(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(nil))

	mockSource := new(mockSnapshotSource)
	mockSource.On("Snapshot", mock.Anything).Return(api.Snapshot{}, errors.New("no data loaded yet"))

	config := Config{
		Addr: ":8080",
		Dependencies: Dependencies{
			Snapshots: mockSource,
			Logger:    logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	resp, err := http.Get(testServer.URL + "/api/v1/snapshot")
	require.NoError(t, err, "Failed to send request")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "snapshot unavailable\n", string(body))
}

func TestWebAPI_CORSHeaders(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(nil))

	mockSource := new(mockSnapshotSource)
	mockSource.On("Snapshot", mock.Anything).Return(servedSnapshot(), nil)

	config := Config{
		Addr: ":8080",
		Dependencies: Dependencies{
			Snapshots: mockSource,
			Logger:    logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	resp, err := http.Get(testServer.URL + "/api/v1/snapshot")
	require.NoError(t, err, "Failed to send request")
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, testServer.URL+"/api/v1/snapshot", nil)
	require.NoError(t, err)
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer preflight.Body.Close()

	assert.Equal(t, http.StatusNoContent, preflight.StatusCode)
	assert.Equal(t, "GET, POST, OPTIONS", preflight.Header.Get("Access-Control-Allow-Methods"))
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
