// Package export assembles the dashboard snapshot and writes it as
// pretty-printed, byte-stable JSON. Two runs over identical inputs produce
// identical files.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/cri-tools/study-atlas/pkg/adapters"
	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/cri-tools/study-atlas/pkg/models/domain"
	"github.com/cri-tools/study-atlas/pkg/models/store"
)

type Exporter struct {
	study       domain.StudyInfo
	timepoints  []domain.TimepointInfo
	medications map[string]domain.Medication
}

func NewExporter(study domain.StudyInfo, timepoints []domain.TimepointInfo, medications map[string]domain.Medication) *Exporter {
	return &Exporter{
		study:       study,
		timepoints:  timepoints,
		medications: medications,
	}
}

// BuildSnapshot folds per-wave aggregates and load diagnostics into the
// dashboard artifact. Waves that were not loaded stay out of the maps
// entirely; consumers must not expect every key.
func (e *Exporter) BuildSnapshot(coll store.Collection, waves []domain.WaveAggregates) api.Snapshot {
	snap := api.Snapshot{
		TreatmentOutcomes:     make(map[string]api.TreatmentOutcomes),
		DrugUsePatterns:       make(map[string]api.DrugUsePatterns),
		HealthcareUtilization: make(map[string]api.Utilization),
		Medications:           make(map[string]api.Medication),
		Datasets:              make(map[string]api.DatasetInfo),
	}

	for _, wa := range waves {
		key := string(wa.Timepoint)
		snap.TreatmentOutcomes[key] = adapters.MapTreatmentOutcomesDomainToApi(wa.Outcomes)
		snap.DrugUsePatterns[key] = adapters.MapDrugUsePatternsDomainToApi(wa.DrugUse)
		snap.HealthcareUtilization[key] = adapters.MapUtilizationDomainToApi(wa.Utilization)
		if wa.Demographics != nil {
			snap.Demographics = adapters.MapDemographicsDomainToApi(wa.Demographics)
		}
	}
	for key, ds := range coll.Datasets {
		snap.Datasets[key] = adapters.MapStoreDatasetToApiInfo(ds)
	}
	for key, med := range e.medications {
		snap.Medications[key] = adapters.MapMedicationDomainToApi(med)
	}
	snap.StudyOverview = e.studyOverview(coll)
	return snap
}

func (e *Exporter) studyOverview(coll store.Collection) api.StudyOverview {
	overview := api.StudyOverview{
		Title:                e.study.Title,
		Description:          e.study.Description,
		StudyPeriod:          adapters.MapStudyPeriodDomainToApi(e.study.Period),
		StudyLocations:       append([]string(nil), e.study.Locations...),
		DataCollectionPeriod: e.study.DataCollectionPeriod,
		ResponseRates:        make(map[string]string, len(e.study.ResponseRates)),
		Timepoints:           make(map[string]api.TimepointInfo, len(e.timepoints)),
	}
	for tp, rate := range e.study.ResponseRates {
		overview.ResponseRates[string(tp)] = rate
	}
	for _, ti := range e.timepoints {
		overview.TimepointOrder = append(overview.TimepointOrder, string(ti.Key))
		overview.Timepoints[string(ti.Key)] = adapters.MapTimepointInfoDomainToApi(ti)
	}
	// Enrollment count comes from the baseline wave, not the merged table.
	if baseline, ok := coll.Datasets[string(domain.TimepointBaseline)]; ok {
		overview.TotalPatients = len(baseline.Records)
	}
	return overview
}

// Marshal renders the snapshot with two-space indent and a trailing newline.
func Marshal(snap api.Snapshot) ([]byte, error) {
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return append(out, '\n'), nil
}

// WriteSnapshot persists the artifact. A write failure is fatal to the run;
// there is nothing sensible to serve without the file.
func (e *Exporter) WriteSnapshot(ctx context.Context, snap api.Snapshot, path string) error {
	out, err := Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	zerolog.Ctx(ctx).Info().
		Str("path", path).
		Int("bytes", len(out)).
		Msg("snapshot written")
	return nil
}
