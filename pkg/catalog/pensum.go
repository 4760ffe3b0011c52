package catalog

import "strings"

// PensumEntry is the curriculum metadata for one course code, together with
// every program whose curriculum lists it.
type PensumEntry struct {
	Code       string
	Name       string
	Credits    int
	Requisites []string
	Level      int
	Programs   []ProgramRef
	// Names holds every distinct spelling of the name seen across programs,
	// compared case-insensitively.
	Names []string
}

// PensumMap holds curriculum entries keyed by code in first-sighting order.
type PensumMap struct {
	codes   []string
	entries map[string]*PensumEntry
	roster  []ProgramRef
	rows    int
}

func NewPensumMap() *PensumMap {
	return &PensumMap{entries: make(map[string]*PensumEntry)}
}

// Add folds one curriculum row listed by program into the map.
func (m *PensumMap) Add(row PensumEntry, program ProgramRef, policy Backfill) {
	code := NormalizeSKU(row.Code)
	if code == "" {
		return
	}
	m.addToRoster(program)
	m.rows++

	existing, found := m.entries[code]
	if !found {
		m.entries[code] = &PensumEntry{
			Code:       code,
			Name:       row.Name,
			Credits:    row.Credits,
			Requisites: append([]string{}, row.Requisites...),
			Level:      row.Level,
			Programs:   []ProgramRef{program},
		}
		m.entries[code].addName(row.Name)
		m.codes = append(m.codes, code)
		return
	}

	if !containsRef(existing.Programs, program) {
		existing.Programs = append(existing.Programs, program)
	}
	existing.addName(row.Name)
	existing.Name = policy.pickText(existing.Name, row.Name)
	existing.Credits = policy.pickInt(existing.Credits, row.Credits)
	existing.Level = policy.pickInt(existing.Level, row.Level)
	existing.Requisites = policy.pickList(existing.Requisites, row.Requisites)
}

func (m *PensumMap) addToRoster(ref ProgramRef) {
	if !containsRef(m.roster, ref) {
		m.roster = append(m.roster, ref)
	}
}

// Get returns the entry for code.
func (m *PensumMap) Get(code string) (*PensumEntry, bool) {
	e, ok := m.entries[NormalizeSKU(code)]
	return e, ok
}

// Codes returns every code in first-sighting order.
func (m *PensumMap) Codes() []string {
	return append([]string{}, m.codes...)
}

// Rows counts every row added, repeats included.
func (m *PensumMap) Rows() int {
	return m.rows
}

func (m *PensumMap) Len() int {
	return len(m.codes)
}

// Roster is every program that contributed at least one course, in the order
// they were first seen.
func (m *PensumMap) Roster() []ProgramRef {
	return append([]ProgramRef{}, m.roster...)
}

// Shared returns the codes listed by more than one program.
func (m *PensumMap) Shared() []string {
	var shared []string
	for _, code := range m.codes {
		if len(m.entries[code].Programs) > 1 {
			shared = append(shared, code)
		}
	}
	return shared
}

func (e *PensumEntry) addName(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	folded := FoldName(name)
	for _, n := range e.Names {
		if FoldName(n) == folded {
			return
		}
	}
	e.Names = append(e.Names, name)
}

// Record builds a course record with no groups from the entry.
func (e PensumEntry) Record() CourseRecord {
	return CourseRecord{
		SKU:          e.Code,
		Name:         e.Name,
		Credits:      e.Credits,
		Requirements: append([]string{}, e.Requisites...),
		Level:        e.Level,
		Groups:       []ScheduleGroup{},
		Programs:     append([]ProgramRef{}, e.Programs...),
	}
}

func containsRef(refs []ProgramRef, ref ProgramRef) bool {
	for _, r := range refs {
		if r.same(ref) {
			return true
		}
	}
	return false
}
