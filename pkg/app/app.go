// Package app wires the loaders, the merge engine and the writers into the
// runs the command line exposes.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/openswoop/pensum/pkg/catalog"
	"github.com/openswoop/pensum/pkg/config"
	"github.com/openswoop/pensum/pkg/load"
	"github.com/openswoop/pensum/pkg/merge"
	"go.uber.org/zap"
)

const (
	MergedFile   = "merged_subjects_optimized.json"
	SharedFile   = "cursos_compartidos.json"
	FusionReport = "reporte_fusion_horarios.json"
)

type Pipeline struct {
	Config *config.Config
	Log    *zap.Logger
	Now    func() time.Time
}

func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Config: cfg, Log: log, Now: time.Now}
}

// Result is everything a merge run produced.
type Result struct {
	Pensum  *catalog.PensumMap
	Records catalog.Records
	Stats   merge.Stats
	Issues  []error
}

func (p *Pipeline) loader() *load.Loader {
	return p.Config.Loader(p.Log.Named("load"))
}

// MergedPath is where merge writes when no output is given.
func (p *Pipeline) MergedPath() string {
	return filepath.Join(p.Config.OutputDir, MergedFile)
}

// SharedPath is where the shared course list is written.
func (p *Pipeline) SharedPath() string {
	return filepath.Join(p.Config.OutputDir, "output", SharedFile)
}

// Pensum loads only the curriculum files.
func (p *Pipeline) Pensum() (*catalog.PensumMap, []error, error) {
	l := p.loader()
	pensum, err := l.Pensum(p.Config.PensumDir, p.Config.Programs)
	if err != nil {
		return nil, l.Issues(), err
	}
	return pensum, l.Issues(), nil
}

// Build loads the pensum and every schedule source and merges them.
func (p *Pipeline) Build() (*Result, error) {
	l := p.loader()
	pensum, err := l.Pensum(p.Config.PensumDir, p.Config.Programs)
	if err != nil {
		return nil, err
	}
	sources, err := l.Schedules(p.Config.ScheduleDir, p.Config.Programs, p.Config.ConsolidatedFiles)
	if err != nil {
		return nil, err
	}

	records, stats, err := merge.MergeStats(pensum, sources, merge.Options{
		Backfill:      p.Config.Policy(),
		FanOutContext: p.Config.FanOutContext,
		Log:           p.Log.Named("merge"),
	})
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return &Result{Pensum: pensum, Records: records, Stats: stats, Issues: l.Issues()}, nil
}
