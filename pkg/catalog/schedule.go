package catalog

// ScheduleCourse is one course entry of a schedule file after its keys were
// canonicalized.
type ScheduleCourse struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Credits      int             `json:"credits,omitempty"`
	Level        int             `json:"level,omitempty"`
	Requirements []string        `json:"requirements,omitempty"`
	Groups       []ScheduleGroup `json:"groups"`
}

// ScheduleSource is a loaded schedule file. Program is nil when the file is
// consolidated (not tied to one program).
type ScheduleSource struct {
	Name    string
	Path    string
	Program *ProgramRef
	Courses []ScheduleCourse
}

func (s ScheduleSource) Attributed() bool {
	return s.Program != nil
}

// GroupsBySKU maps every course code found in the sources to its groups. A
// code listed with no groups maps to an empty slice; it never replaces a
// non-empty list gathered from an earlier entry. Groups for the same code are
// unioned by identifier.
func GroupsBySKU(sources ...ScheduleSource) map[string][]ScheduleGroup {
	out := make(map[string][]ScheduleGroup)
	for _, src := range sources {
		for _, course := range src.Courses {
			sku := NormalizeSKU(course.SKU)
			if sku == "" {
				continue
			}
			rec := CourseRecord{Groups: out[sku]}
			rec.AddGroups(course.Groups...)
			if rec.Groups == nil {
				rec.Groups = []ScheduleGroup{}
			}
			out[sku] = rec.Groups
		}
	}
	return out
}
