package domain

// RunSummary describes one aggregation run for terminal reporting.
type RunSummary struct {
	RunID          string
	DataDir        string
	OutputPath     string
	UniquePatients int
	Waves          []WaveSummary
	Skipped        []SkippedFile
}

// WaveSummary holds per-wave load diagnostics.
type WaveSummary struct {
	Timepoint Timepoint
	File      string
	Records   int
	Malformed int
	Columns   int
}

// SkippedFile records an input file that could not be loaded.
type SkippedFile struct {
	Timepoint Timepoint
	File      string
	Reason    string
}

// ColumnScan is the schema diagnostic for one wave, produced by the scan
// command before any aggregation happens.
type ColumnScan struct {
	Timepoint        Timepoint
	File             string
	Records          int
	Malformed        int
	Columns          int
	OpioidColumns    []string
	TreatmentColumns []string
}

type ScanReport struct {
	DataDir        string
	UniquePatients int
	Waves          []ColumnScan
	Skipped        []SkippedFile
}
