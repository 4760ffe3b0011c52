package report

import (
	"sort"

	"github.com/openswoop/pensum/pkg/catalog"
)

type courseView struct {
	SKU          string `csv:"sku"`
	Name         string `csv:"name"`
	Credits      int    `csv:"credits"`
	Level        int    `csv:"level"`
	Requirements string `csv:"requirements"`
	Groups       int    `csv:"groups"`
	Capacity     int    `csv:"capacity"`
	Enrolled     int    `csv:"enrolled"`
	ProgramCount int    `csv:"program_count"`
	Programs     string `csv:"programs"`
}

// WriteCourses writes one row per course, list fields joined with ";".
func WriteCourses(fileName string, records []catalog.CourseRecord) error {
	rows := make(courseReport, 0, len(records))
	for _, rec := range records {
		view := courseView{
			SKU:          rec.SKU,
			Name:         rec.Name,
			Credits:      rec.Credits,
			Level:        rec.Level,
			Requirements: joinList(rec.Requirements),
			Groups:       len(rec.Groups),
			ProgramCount: len(rec.Programs),
			Programs:     joinList(programNames(rec.Programs)),
		}
		for _, g := range rec.Groups {
			view.Capacity += g.Capacity
			view.Enrolled += g.Enrolled
		}
		rows = append(rows, view)
	}

	sort.Stable(rows)
	return WriteCsv(rows, fileName)
}

type courseReport []courseView

func (r courseReport) Len() int {
	return len(r)
}

func (r courseReport) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

func (r courseReport) Less(i, j int) bool {
	return r[i].SKU < r[j].SKU
}
