package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cri-tools/study-atlas/pkg/models/api"
	"github.com/cri-tools/study-atlas/pkg/server"
	studyconfig "github.com/cri-tools/study-atlas/pkg/services/config"
	"github.com/cri-tools/study-atlas/pkg/services/pipeline"
	"github.com/cri-tools/study-atlas/pkg/services/watch"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultStaticDir = "web/static"

type ServeCmd struct {
	addr         string
	dataDir      string
	configPath   string
	snapshotPath string
	staticDir    string
	watch        bool
	logger       zerolog.Logger
}

func NewServeCmd(logger zerolog.Logger) *cobra.Command {
	sc := &ServeCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and its JSON API",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.addr, "addr", ":8000", "Address the server listens on")
	cmd.Flags().StringVar(&sc.dataDir, "data-dir", "", "Directory holding the per-wave CSV exports")
	cmd.Flags().StringVar(&sc.configPath, "config", "", "Path to the study config (built-in defaults when unset)")
	cmd.Flags().StringVar(&sc.snapshotPath, "snapshot", "", "Serve a previously exported snapshot instead of aggregating")
	cmd.Flags().StringVar(&sc.staticDir, "static", defaultStaticDir, "Directory with the dashboard assets")
	cmd.Flags().BoolVar(&sc.watch, "watch", false, "Rebuild the snapshot when CSV files change")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, args []string) error {
	ctx := sc.logger.WithContext(cmd.Context())

	holder := &snapshotHolder{}

	var p *pipeline.Pipeline
	switch {
	case sc.snapshotPath != "":
		snap, err := loadSnapshot(sc.snapshotPath)
		if err != nil {
			return err
		}
		holder.Swap(snap)
	case sc.dataDir != "":
		cfg, err := studyconfig.LoadConfig(sc.configPath)
		if err != nil {
			return fmt.Errorf("failed to load study config: %w", err)
		}
		p = pipeline.New(pipeline.Settings{
			DataDir: sc.dataDir,
			Config:  cfg,
		})
		snap, _, err := p.Run(ctx)
		if err != nil {
			return err
		}
		holder.Swap(snap)
	default:
		return errors.New("either --data-dir or --snapshot is required")
	}

	if sc.watch {
		if p == nil {
			return errors.New("--watch requires --data-dir")
		}
		watcher, err := watch.NewWatcher(sc.dataDir, func(ctx context.Context) error {
			snap, _, err := p.Run(ctx)
			if err != nil {
				return err
			}
			holder.Swap(snap)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", sc.dataDir, err)
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	webAPI := server.NewWebAPI(server.Config{
		Addr:         sc.addr,
		ArtifactPath: sc.snapshotPath,
		StaticDir:    sc.staticDir,
		Dependencies: server.Dependencies{
			Snapshots: holder,
			Logger:    sc.logger,
		},
	})

	return webAPI.Start()
}

func loadSnapshot(path string) (api.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.Snapshot{}, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var snap api.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return api.Snapshot{}, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return snap, nil
}

// snapshotHolder is the swap point between the rebuild loop and the HTTP
// handlers.
type snapshotHolder struct {
	mu     sync.RWMutex
	snap   api.Snapshot
	loaded bool
}

func (h *snapshotHolder) Swap(snap api.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
	h.loaded = true
}

func (h *snapshotHolder) Snapshot(_ context.Context) (api.Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.loaded {
		return api.Snapshot{}, errors.New("no snapshot loaded")
	}
	return h.snap, nil
}
