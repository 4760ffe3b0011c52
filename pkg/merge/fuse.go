package merge

import (
	"time"

	"github.com/openswoop/pensum/pkg/catalog"
)

const (
	reasonNotScheduled = "sku not found in schedule file"
	reasonNoGroups     = "schedule lists the sku without groups"
	reasonUpToDate     = "every group is already present"
)

// FusionReport records which courses a fusion changed, for auditing.
type FusionReport struct {
	Generated time.Time       `json:"generated"`
	Summary   FusionSummary   `json:"summary"`
	Updated   []FusedCourse   `json:"updated"`
	Unchanged []UnfusedCourse `json:"unchanged"`
}

type FusionSummary struct {
	Total     int `json:"total"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

type FusedCourse struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	GroupsAdded int      `json:"groups_added"`
	Programs    []string `json:"programs"`
}

type UnfusedCourse struct {
	SKU            string   `json:"sku"`
	Name           string   `json:"name"`
	OriginalGroups int      `json:"original_groups"`
	Programs       []string `json:"programs"`
	Reason         string   `json:"reason"`
}

// Fuse folds schedule groups into an already merged catalog. A course whose
// SKU has groups in the schedule gets them: with Overwrite the schedule's
// groups replace the current ones, otherwise only new identifiers are
// appended. Every other course is left as is. The input is not modified.
func Fuse(records catalog.Records, groups map[string][]catalog.ScheduleGroup, policy catalog.Backfill, now time.Time) (catalog.Records, FusionReport, error) {
	report := FusionReport{
		Generated: now.UTC(),
		Updated:   []FusedCourse{},
		Unchanged: []UnfusedCourse{},
	}
	if err := catalog.CheckUnique(records); err != nil {
		return nil, report, err
	}

	out := records.Apply()
	for i := range out {
		rec := &out[i]
		original := len(rec.Groups)
		incoming, found := groups[catalog.NormalizeSKU(rec.SKU)]

		reason := ""
		added := 0
		switch {
		case !found:
			reason = reasonNotScheduled
		case len(incoming) == 0:
			reason = reasonNoGroups
		case policy == catalog.Overwrite:
			rec.Groups = nil
			added = rec.AddGroups(incoming...)
		default:
			added = rec.AddGroups(incoming...)
			if added == 0 {
				reason = reasonUpToDate
			}
		}

		if reason != "" {
			report.Unchanged = append(report.Unchanged, UnfusedCourse{
				SKU:            rec.SKU,
				Name:           rec.Name,
				OriginalGroups: original,
				Programs:       programNames(rec.Programs),
				Reason:         reason,
			})
			continue
		}
		report.Updated = append(report.Updated, FusedCourse{
			SKU:         rec.SKU,
			Name:        rec.Name,
			GroupsAdded: added,
			Programs:    programNames(rec.Programs),
		})
	}

	report.Summary = FusionSummary{
		Total:     len(out),
		Updated:   len(report.Updated),
		Unchanged: len(report.Unchanged),
	}
	return out, report, nil
}

func programNames(refs []catalog.ProgramRef) []string {
	names := make([]string, 0, len(refs))
	for _, p := range refs {
		names = append(names, p.Name)
	}
	return names
}
