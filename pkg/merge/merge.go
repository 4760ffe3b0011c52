// Package merge folds curriculum metadata and scraped schedule sources into a
// single catalog with one record per course code.
package merge

import (
	"github.com/openswoop/pensum/pkg/catalog"
	"go.uber.org/zap"
)

// Options controls how sources are folded together.
type Options struct {
	// Backfill decides which scalar value survives when sources disagree.
	Backfill catalog.Backfill
	// FanOutContext attributes courses from unattributed sources, which no
	// pensum lists, to every program in the pensum roster.
	FanOutContext bool
	Log           *zap.Logger
}

func DefaultOptions() Options {
	return Options{Backfill: catalog.FirstNonEmpty, FanOutContext: true, Log: zap.NewNop()}
}

// Stats counts what a merge did. It is logged at the end of every run.
type Stats struct {
	Seeded        int // records created from the pensum
	Added         int // records created from schedule sources
	ProgramsAdded int
	GroupsAdded   int
	FannedOut     int // context courses given the full roster
}

// Merge builds the catalog: one record per pensum code, then every schedule
// course folded in source by source. The result is sorted by SKU. A
// *catalog.DuplicateSKUError is returned, with no records, if the output
// would carry a code twice.
func Merge(pensum *catalog.PensumMap, sources []catalog.ScheduleSource, opts Options) (catalog.Records, error) {
	records, _, err := MergeStats(pensum, sources, opts)
	return records, err
}

// MergeStats is Merge that also reports what was folded in.
func MergeStats(pensum *catalog.PensumMap, sources []catalog.ScheduleSource, opts Options) (catalog.Records, Stats, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if pensum == nil {
		pensum = catalog.NewPensumMap()
	}

	var stats Stats
	c := catalog.New()
	for _, code := range pensum.Codes() {
		entry, _ := pensum.Get(code)
		c.Put(entry.Record())
		stats.Seeded++
	}

	roster := pensum.Roster()
	for _, src := range sources {
		for _, course := range src.Courses {
			sku := catalog.NormalizeSKU(course.SKU)
			if sku == "" {
				continue
			}

			rec, seen := c.Get(sku)
			if !seen {
				rec = c.Put(catalog.CourseRecord{
					SKU:          sku,
					Name:         course.Name,
					Credits:      course.Credits,
					Level:        course.Level,
					Requirements: append([]string{}, course.Requirements...),
				})
				stats.Added++
			} else {
				rec.Backfill(opts.Backfill, course.Name, course.Credits, course.Level, course.Requirements)
			}

			switch {
			case src.Attributed():
				stats.ProgramsAdded += rec.AddPrograms(*src.Program)
			case len(rec.Programs) == 0 && opts.FanOutContext:
				if added := rec.AddPrograms(roster...); added > 0 {
					stats.ProgramsAdded += added
					stats.FannedOut++
				}
			}
			stats.GroupsAdded += rec.AddGroups(course.Groups...)
		}
		log.Debug("folded schedule source",
			zap.String("source", src.Name),
			zap.Bool("attributed", src.Attributed()),
			zap.Int("courses", len(src.Courses)))
	}

	records := c.Records()
	if err := catalog.CheckUnique(records); err != nil {
		return nil, stats, err
	}
	log.Info("merged catalog",
		zap.Int("records", len(records)),
		zap.Int("seeded", stats.Seeded),
		zap.Int("added", stats.Added),
		zap.Int("groups_added", stats.GroupsAdded),
		zap.Int("fanned_out", stats.FannedOut),
		zap.Stringer("backfill", opts.Backfill))
	return records, stats, nil
}
