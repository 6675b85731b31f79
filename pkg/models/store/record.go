package store

import "sort"

// Record is a single patient observation at one wave. Values holds the raw
// CSV cell per column, untouched. Duplicate patient rows are kept as-is.
type Record struct {
	PatientID string
	Values    map[string]string
}

// Field returns the raw value and whether the column exists for this record.
// A present-but-empty cell returns ("", true); a column absent from the wave
// schema returns ("", false). Callers must not treat the two alike.
func (r Record) Field(name string) (string, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// Dataset holds every record of one wave plus its load diagnostics.
// Immutable once loaded.
type Dataset struct {
	Timepoint string
	File      string
	Columns   []string // header order, trimmed
	Records   []Record
	Malformed int // rows skipped during load
}

// HasColumn reports whether the wave schema declares the column.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// SkippedFile records an input file that could not be read.
type SkippedFile struct {
	Timepoint string
	File      string
	Reason    string
}

// Collection is the per-run set of loaded datasets, keyed by wave.
type Collection struct {
	Order    []string // wave keys in study order
	Datasets map[string]Dataset
	Skipped  []SkippedFile
}

// TaggedRecord is one row of the longitudinal table.
type TaggedRecord struct {
	Timepoint string
	Record    Record
}

// Merged concatenates every loaded wave in study order, tagging each record
// with its wave. The result is for cross-wave bookkeeping only; per-wave
// statistics never run over it.
func (c Collection) Merged() []TaggedRecord {
	var rows []TaggedRecord
	for _, tp := range c.Order {
		ds, ok := c.Datasets[tp]
		if !ok {
			continue
		}
		for _, r := range ds.Records {
			rows = append(rows, TaggedRecord{Timepoint: tp, Record: r})
		}
	}
	return rows
}

// UniquePatients counts distinct non-empty patient IDs across all waves.
func (c Collection) UniquePatients() int {
	seen := make(map[string]struct{})
	for _, row := range c.Merged() {
		if row.Record.PatientID == "" {
			continue
		}
		seen[row.Record.PatientID] = struct{}{}
	}
	return len(seen)
}

// Waves returns the keys of the loaded datasets in study order.
func (c Collection) Waves() []string {
	var waves []string
	for _, tp := range c.Order {
		if _, ok := c.Datasets[tp]; ok {
			waves = append(waves, tp)
		}
	}
	return waves
}

// SortedColumns returns a dataset's columns in lexical order. Fuzzy variable
// resolution depends on this ordering being stable.
func (d Dataset) SortedColumns() []string {
	cols := make([]string, len(d.Columns))
	copy(cols, d.Columns)
	sort.Strings(cols)
	return cols
}
