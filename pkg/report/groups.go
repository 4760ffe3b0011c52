package report

import (
	"strconv"

	"github.com/openswoop/pensum/pkg/catalog"
)

type groupViewFull struct {
	SKU        string `csv:"sku"`
	Name       string `csv:"name"`
	Identifier string `csv:"group"`
	Capacity   string `csv:"capacity"`
	Enrolled   string `csv:"enrolled"`
	SessionView
}

type SessionView struct {
	Day       string `csv:"day"`
	Time      string `csv:"time"`
	Building  string `csv:"building"`
	Room      string `csv:"room"`
	Professor string `csv:"professor"`
}

// WriteGroups writes one row per session. The course and group columns are
// only filled on the first session of each group.
func WriteGroups(fileName string, records []catalog.CourseRecord) error {
	var rows []groupViewFull
	for _, rec := range records {
		for _, g := range rec.Groups {
			sessions := g.Schedule
			if len(sessions) == 0 {
				sessions = []catalog.Session{{}}
			}
			for i, s := range sessions {
				isContinuationRow := i > 0

				partial := SessionView{
					Day:       s.Day,
					Time:      s.Time,
					Building:  s.Building,
					Room:      s.Room,
					Professor: s.Professor,
				}

				if !isContinuationRow {
					rows = append(rows, groupViewFull{
						SKU:         rec.SKU,
						Name:        rec.Name,
						Identifier:  g.Identifier,
						Capacity:    strconv.Itoa(g.Capacity),
						Enrolled:    strconv.Itoa(g.Enrolled),
						SessionView: partial,
					})
				} else {
					rows = append(rows, groupViewFull{
						SessionView: partial,
					})
				}
			}
		}
	}

	return WriteCsv(rows, fileName)
}
