package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openswoop/pensum/pkg/catalog"
	"github.com/openswoop/pensum/pkg/load"
	"github.com/openswoop/pensum/pkg/merge"
	"github.com/openswoop/pensum/pkg/report"
	"go.uber.org/zap"
)

// WriteCatalog writes records to path, wrapped in the metadata envelope when
// envelope is set. The metadata is returned, or nil for a bare array.
func (p *Pipeline) WriteCatalog(path string, records catalog.Records, envelope bool) (*report.Metadata, error) {
	var meta *report.Metadata
	if envelope {
		m := report.NewMetadata(records, len(p.Config.Programs), p.Now())
		meta = &m
	}
	if err := report.WriteJSONFile(path, report.CatalogDocument(records, meta)); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	p.Log.Info("catalog written", zap.String("path", path), zap.Int("subjects", len(records)))
	return meta, nil
}

// SharedResult is the outcome of a shared course run.
type SharedResult struct {
	Records   catalog.Records
	Conflicts []merge.NameConflict
	Processed int // pensum rows read
	Unique    int // distinct codes
	Issues    []error
}

// Shared writes the courses listed by more than one program to path.
func (p *Pipeline) Shared(path string) (*SharedResult, error) {
	pensum, issues, err := p.Pensum()
	if err != nil {
		return nil, err
	}
	records, conflicts := merge.Shared(pensum)
	for _, c := range conflicts {
		p.Log.Warn("course listed under different names",
			zap.String("sku", c.SKU), zap.Strings("names", c.Names))
	}
	if _, err := p.WriteCatalog(path, records, false); err != nil {
		return nil, err
	}
	return &SharedResult{
		Records:   records,
		Conflicts: conflicts,
		Processed: pensum.Rows(),
		Unique:    pensum.Len(),
		Issues:    issues,
	}, nil
}

// TransformPath is the default output of Transform: the input name with a
// _transformed suffix, next to it.
func TransformPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_transformed.json"
}

// Transform rewrites one schedule file with canonical keys. Unreadable
// input is an error; skipped entries are returned as issues.
func (p *Pipeline) Transform(in, out string) ([]catalog.ScheduleCourse, []error, error) {
	l := p.loader()
	src, err := l.ScheduleFile(in, nil)
	if err != nil {
		return nil, l.Issues(), err
	}
	if err := report.WriteJSONFile(out, src.Courses); err != nil {
		return nil, l.Issues(), fmt.Errorf("write %s: %w", out, err)
	}
	p.Log.Info("schedule transformed",
		zap.String("in", in), zap.String("out", out), zap.Int("courses", len(src.Courses)))
	return src.Courses, l.Issues(), nil
}

// Fuse folds the groups of one schedule file into a catalog file and writes
// it back in the shape it was read, with the fusion report next to it.
func (p *Pipeline) Fuse(catalogPath, schedulePath string) (*merge.FusionReport, string, error) {
	records, enveloped, err := load.CatalogFile(catalogPath)
	if err != nil {
		return nil, "", err
	}
	l := p.loader()
	src, err := l.ScheduleFile(schedulePath, nil)
	if err != nil {
		return nil, "", err
	}

	fused, rep, err := merge.Fuse(records, catalog.GroupsBySKU(src), p.Config.Policy(), p.Now())
	if err != nil {
		return nil, "", err
	}
	if _, err := p.WriteCatalog(catalogPath, fused, enveloped); err != nil {
		return nil, "", err
	}

	reportPath := filepath.Join(filepath.Dir(catalogPath), FusionReport)
	if err := report.WriteJSONFile(reportPath, rep); err != nil {
		return nil, "", fmt.Errorf("write %s: %w", reportPath, err)
	}
	return &rep, reportPath, nil
}

// ScrapeList writes the prioritized scrape list to path, as CSV when the
// extension is .csv and as a JSON array of codes otherwise.
func (p *Pipeline) ScrapeList(path string) ([]report.ScrapeItem, error) {
	pensum, _, err := p.Pensum()
	if err != nil {
		return nil, err
	}
	items := report.ScrapeList(pensum)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = report.WriteCsv(items, path)
	} else {
		err = report.WriteJSONFile(path, report.ScrapeSKUs(items))
	}
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return items, nil
}
