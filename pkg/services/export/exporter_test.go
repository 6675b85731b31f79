package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/cri-tools/study-atlas/pkg/models/domain"
	"github.com/cri-tools/study-atlas/pkg/models/store"
	"github.com/cri-tools/study-atlas/pkg/services/aggregate"
	"github.com/cri-tools/study-atlas/pkg/services/config"
)

func fixtureDataset(timepoint string, columns []string, rows ...[]string) store.Dataset {
	ds := store.Dataset{
		Timepoint: timepoint,
		File:      "Patient-" + timepoint + ".csv",
		Columns:   columns,
	}
	for _, row := range rows {
		values := make(map[string]string, len(columns))
		for j, col := range columns {
			values[col] = row[j]
		}
		ds.Records = append(ds.Records, store.Record{PatientID: row[0], Values: values})
	}
	return ds
}

func fixtureExporter() *Exporter {
	cfg := config.Default()
	return NewExporter(cfg.StudyInfo(), cfg.TimepointInfos(), cfg.MedicationInfos())
}

func fixtureInputs() (store.Collection, []domain.WaveAggregates) {
	baseline := fixtureDataset("baseline",
		[]string{"CID", "currentbup", "sex", "opuse30"},
		[]string{"1001", "1", "1", "1"},
		[]string{"1002", "0", "2", "0"},
		[]string{"1003", "1", "9", "1"},
	)
	threeMonth := fixtureDataset("3_month",
		[]string{"CID", "currentbup"},
		[]string{"1001", "1"},
	)
	coll := store.Collection{
		Order: []string{"baseline", "3_month", "6_month", "12_month", "18_month"},
		Datasets: map[string]store.Dataset{
			"baseline": baseline,
			"3_month":  threeMonth,
		},
		Skipped: []store.SkippedFile{
			{Timepoint: "6_month", File: "Patient-6-month-Data.csv", Reason: "missing"},
		},
	}

	agg := aggregate.NewAggregator(aggregate.DefaultCatalog())
	var waves []domain.WaveAggregates
	for _, tp := range coll.Waves() {
		waves = append(waves, agg.Wave(context.Background(), coll.Datasets[tp]))
	}
	return coll, waves
}

func TestBuildSnapshotOmitsMissingWaves(t *testing.T) {
	coll, waves := fixtureInputs()
	snap := fixtureExporter().BuildSnapshot(coll, waves)

	assert.Contains(t, snap.TreatmentOutcomes, "baseline")
	assert.Contains(t, snap.TreatmentOutcomes, "3_month")
	assert.NotContains(t, snap.TreatmentOutcomes, "6_month")
	assert.NotContains(t, snap.HealthcareUtilization, "18_month")

	require.NotNil(t, snap.Demographics)
	assert.Equal(t, 3, snap.Demographics.TotalPatients)
	assert.Equal(t, 3, snap.StudyOverview.TotalPatients)
}

func TestBuildSnapshotRates(t *testing.T) {
	coll, waves := fixtureInputs()
	snap := fixtureExporter().BuildSnapshot(coll, waves)

	baseline := snap.TreatmentOutcomes["baseline"]
	require.NotNil(t, baseline.Buprenorphine.Rate)
	assert.Equal(t, 66.7, *baseline.Buprenorphine.Rate)
	assert.True(t, baseline.Buprenorphine.Available)

	// currentmmt is absent from the fixture schema
	assert.Nil(t, baseline.Methadone.Rate)
	assert.False(t, baseline.Methadone.Available)

	sex := snap.Demographics.Sex
	require.Len(t, sex.Buckets, 3)
	assert.Equal(t, api.Bucket{Label: "unmapped code 9", Count: 1}, sex.Buckets[2])
}

func TestBuildSnapshotStudyOverview(t *testing.T) {
	coll, waves := fixtureInputs()
	snap := fixtureExporter().BuildSnapshot(coll, waves)

	overview := snap.StudyOverview
	assert.Equal(t, "Medications for Opioid Use Disorder (MOUD) Study", overview.Title)
	assert.Len(t, overview.StudyLocations, 15)
	assert.Equal(t,
		[]string{"baseline", "3_month", "6_month", "12_month", "18_month"},
		overview.TimepointOrder,
	)
	assert.Equal(t, "100% (1,974 patients)", overview.ResponseRates["baseline"])
	assert.Len(t, snap.Medications, 3)

	assert.Equal(t, 4, snap.Datasets["baseline"].Columns)
	assert.Equal(t, 3, snap.Datasets["baseline"].Records)
}

func TestSnapshotDeterministic(t *testing.T) {
	coll, waves := fixtureInputs()
	exporter := fixtureExporter()

	first, err := Marshal(exporter.BuildSnapshot(coll, waves))
	require.NoError(t, err)
	second, err := Marshal(exporter.BuildSnapshot(coll, waves))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteSnapshotFile(t *testing.T) {
	coll, waves := fixtureInputs()
	exporter := fixtureExporter()
	path := filepath.Join(t.TempDir(), "dashboard_data.json")

	err := exporter.WriteSnapshot(context.Background(), exporter.BuildSnapshot(coll, waves), path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(raw), "\n"))

	var decoded api.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 3, decoded.StudyOverview.TotalPatients)
	assert.Contains(t, decoded.Datasets, "3_month")
}

func TestWriteSnapshotBadPath(t *testing.T) {
	coll, waves := fixtureInputs()
	exporter := fixtureExporter()

	err := exporter.WriteSnapshot(context.Background(),
		exporter.BuildSnapshot(coll, waves),
		filepath.Join(t.TempDir(), "no-such-dir", "out.json"))
	assert.Error(t, err)
}
