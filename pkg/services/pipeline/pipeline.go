// Package pipeline runs Load -> Aggregate -> Export as one unit of work over
// an immutable collection. Nothing is cached between runs; calling Run twice
// reads the data directory twice.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cri-tools/study-atlas/pkg/adapters"
	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/cri-tools/study-atlas/pkg/models/domain"
	"github.com/cri-tools/study-atlas/pkg/models/store"
	"github.com/cri-tools/study-atlas/pkg/services/aggregate"
	"github.com/cri-tools/study-atlas/pkg/services/config"
	"github.com/cri-tools/study-atlas/pkg/services/export"
	"github.com/cri-tools/study-atlas/pkg/services/resolver"
	"github.com/cri-tools/study-atlas/pkg/store/csvdata"
)

type Settings struct {
	DataDir    string
	OutputPath string // empty means build in memory only
	Config     *config.Config
}

type Pipeline struct {
	settings Settings
	loader   *csvdata.Loader
	agg      *aggregate.Aggregator
	exporter *export.Exporter
}

func New(settings Settings) *Pipeline {
	cfg := settings.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	waves := make([]csvdata.WaveFile, 0, len(cfg.Waves))
	for _, w := range cfg.Waves {
		waves = append(waves, csvdata.WaveFile{Key: w.Key, File: w.File})
	}

	return &Pipeline{
		settings: settings,
		loader: csvdata.NewLoader(csvdata.Settings{
			DataDir:  settings.DataDir,
			IDColumn: cfg.IDColumn,
			Waves:    waves,
		}),
		agg:      aggregate.NewAggregator(aggregate.DefaultCatalog()),
		exporter: export.NewExporter(cfg.StudyInfo(), cfg.TimepointInfos(), cfg.MedicationInfos()),
	}
}

// Run loads every wave, aggregates them independently, and writes the
// snapshot when an output path is configured.
func (p *Pipeline) Run(ctx context.Context) (api.Snapshot, domain.RunSummary, error) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	coll, err := p.loader.LoadAll(ctx)
	if err != nil {
		return api.Snapshot{}, domain.RunSummary{}, fmt.Errorf("load study data: %w", err)
	}

	aggs := make([]domain.WaveAggregates, 0, len(coll.Datasets))
	for _, tp := range coll.Waves() {
		aggs = append(aggs, p.agg.Wave(ctx, coll.Datasets[tp]))
	}

	snap := p.exporter.BuildSnapshot(coll, aggs)
	if p.settings.OutputPath != "" {
		if err := p.exporter.WriteSnapshot(ctx, snap, p.settings.OutputPath); err != nil {
			return api.Snapshot{}, domain.RunSummary{}, err
		}
	}

	summary := p.summarize(runID, coll)
	logger.Info().
		Int("waves", len(aggs)).
		Int("patients", summary.UniquePatients).
		Msg("aggregation complete")
	return snap, summary, nil
}

// Scan loads the waves and reports schema diagnostics without aggregating.
func (p *Pipeline) Scan(ctx context.Context) (domain.ScanReport, error) {
	coll, err := p.loader.LoadAll(ctx)
	if err != nil {
		return domain.ScanReport{}, fmt.Errorf("load study data: %w", err)
	}

	report := domain.ScanReport{
		DataDir:        p.settings.DataDir,
		UniquePatients: coll.UniquePatients(),
	}
	for _, tp := range coll.Waves() {
		ds := coll.Datasets[tp]
		opioid, treatment := resolver.ClassifyColumns(ds.Columns)
		report.Waves = append(report.Waves, domain.ColumnScan{
			Timepoint:        domain.Timepoint(tp),
			File:             ds.File,
			Records:          len(ds.Records),
			Malformed:        ds.Malformed,
			Columns:          len(ds.Columns),
			OpioidColumns:    opioid,
			TreatmentColumns: treatment,
		})
	}
	for _, sk := range coll.Skipped {
		report.Skipped = append(report.Skipped, adapters.MapStoreSkippedFileToDomain(sk))
	}
	return report, nil
}

func (p *Pipeline) summarize(runID string, coll store.Collection) domain.RunSummary {
	summary := domain.RunSummary{
		RunID:          runID,
		DataDir:        p.settings.DataDir,
		OutputPath:     p.settings.OutputPath,
		UniquePatients: coll.UniquePatients(),
	}
	for _, tp := range coll.Waves() {
		summary.Waves = append(summary.Waves, adapters.MapStoreDatasetToDomainWaveSummary(coll.Datasets[tp]))
	}
	for _, sk := range coll.Skipped {
		summary.Skipped = append(summary.Skipped, adapters.MapStoreSkippedFileToDomain(sk))
	}
	return summary
}
