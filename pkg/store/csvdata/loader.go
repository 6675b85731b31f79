package csvdata

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cri-tools/study-atlas/pkg/models/store"
)

const readBufferSize = 256 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WaveFile names the export file expected for one study wave.
type WaveFile struct {
	Key  string
	File string
}

type Settings struct {
	DataDir  string
	IDColumn string // defaults to "CID"
	Waves    []WaveFile
}

func DefaultSettings(dataDir string) Settings {
	return Settings{
		DataDir:  dataDir,
		IDColumn: "CID",
		Waves: []WaveFile{
			{Key: "baseline", File: "Patient-Baseline-Data.csv"},
			{Key: "3_month", File: "Patient-3-month-Data.csv"},
			{Key: "6_month", File: "Patient-6-month-Data.csv"},
			{Key: "12_month", File: "Patient-12-month-Data.csv"},
			{Key: "18_month", File: "Patient-18-month-Data.csv"},
		},
	}
}

// Loader reads per-wave CSV exports into an immutable store.Collection.
type Loader struct {
	settings Settings
}

func NewLoader(settings Settings) *Loader {
	if settings.IDColumn == "" {
		settings.IDColumn = "CID"
	}
	return &Loader{settings: settings}
}

// LoadAll reads every configured wave file concurrently. A file that is
// missing or unreadable is skipped and recorded, never fatal; the run only
// fails when no wave could be loaded at all.
func (l *Loader) LoadAll(ctx context.Context) (store.Collection, error) {
	logger := zerolog.Ctx(ctx)

	type slot struct {
		ds   store.Dataset
		skip *store.SkippedFile
	}
	slots := make([]slot, len(l.settings.Waves))

	g, gctx := errgroup.WithContext(ctx)
	for i, wf := range l.settings.Waves {
		g.Go(func() error {
			path := filepath.Join(l.settings.DataDir, wf.File)
			ds, err := l.LoadDataset(gctx, wf.Key, path)
			if err != nil {
				logger.Warn().
					Str("timepoint", wf.Key).
					Str("file", wf.File).
					Err(err).
					Msg("skipping wave file")
				slots[i] = slot{skip: &store.SkippedFile{
					Timepoint: wf.Key,
					File:      wf.File,
					Reason:    err.Error(),
				}}
				return nil
			}
			logger.Info().
				Str("timepoint", wf.Key).
				Str("file", wf.File).
				Int("records", len(ds.Records)).
				Int("malformed", ds.Malformed).
				Msg("wave loaded")
			slots[i] = slot{ds: ds}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return store.Collection{}, err
	}

	coll := store.Collection{
		Order:    make([]string, 0, len(l.settings.Waves)),
		Datasets: make(map[string]store.Dataset),
	}
	for i, wf := range l.settings.Waves {
		coll.Order = append(coll.Order, wf.Key)
		if slots[i].skip != nil {
			coll.Skipped = append(coll.Skipped, *slots[i].skip)
			continue
		}
		coll.Datasets[wf.Key] = slots[i].ds
	}
	if len(coll.Datasets) == 0 {
		return store.Collection{}, fmt.Errorf("no study data files could be loaded from %s", l.settings.DataDir)
	}
	return coll, nil
}

// LoadDataset reads a single wave file. Rows whose shape or quoting the CSV
// parser rejects are skipped and counted, not fatal.
func (l *Loader) LoadDataset(_ context.Context, key string, path string) (store.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return store.Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, readBufferSize)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return store.Dataset{}, fmt.Errorf("%s: file has no header row", path)
		}
		return store.Dataset{}, fmt.Errorf("read header of %s: %w", path, err)
	}
	columns := make([]string, len(header))
	for i, c := range header {
		columns[i] = strings.TrimSpace(c)
	}

	ds := store.Dataset{
		Timepoint: key,
		File:      filepath.Base(path),
		Columns:   columns,
	}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			ds.Malformed++
			continue
		}
		if err != nil {
			return store.Dataset{}, fmt.Errorf("read %s: %w", path, err)
		}

		// Duplicate header names collapse to the rightmost column.
		values := make(map[string]string, len(columns))
		for i, col := range columns {
			values[col] = row[i]
		}
		ds.Records = append(ds.Records, store.Record{
			PatientID: strings.TrimSpace(values[l.settings.IDColumn]),
			Values:    values,
		})
	}
	return ds, nil
}
