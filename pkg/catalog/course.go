package catalog

// ProgramRef is the program attribution stored on a course. Two refs are the
// same program when both name and id match.
type ProgramRef struct {
	Name      string `json:"name" bson:"name" bigquery:"name"`
	ID        int    `json:"id" bson:"id" bigquery:"id"`
	NewPensum bool   `json:"new_pensum" bson:"new_pensum" bigquery:"new_pensum"`
}

func (p ProgramRef) same(o ProgramRef) bool {
	return p.Name == o.Name && p.ID == o.ID
}

// Session is a single weekly meeting of a group.
type Session struct {
	Day       string `json:"day" bson:"day"`
	Time      string `json:"time" bson:"time"`
	Building  string `json:"building" bson:"building"`
	Room      string `json:"room" bson:"room"`
	Professor string `json:"professor" bson:"professor"`
}

// ScheduleGroup is one section of a course as published by the portal.
type ScheduleGroup struct {
	Identifier string    `json:"identifier" bson:"identifier"`
	Capacity   int       `json:"capacity" bson:"capacity"`
	Enrolled   int       `json:"enrolled" bson:"enrolled"`
	Schedule   []Session `json:"schedule" bson:"schedule"`
}

// CourseRecord is the merged view of one course code across every program
// and schedule source of a run.
type CourseRecord struct {
	SKU          string          `json:"sku" bson:"sku"`
	Name         string          `json:"name" bson:"name"`
	Credits      int             `json:"credits" bson:"credits"`
	Requirements []string        `json:"requirements" bson:"requirements"`
	Level        int             `json:"level" bson:"level"`
	Groups       []ScheduleGroup `json:"groups" bson:"groups"`
	Programs     []ProgramRef    `json:"programs" bson:"programs"`
}

// HasProgram reports whether ref is already attributed to the course.
func (c *CourseRecord) HasProgram(ref ProgramRef) bool {
	for _, p := range c.Programs {
		if p.same(ref) {
			return true
		}
	}
	return false
}

// AddPrograms appends the refs that are not yet attributed and returns how
// many were added. The list only ever grows.
func (c *CourseRecord) AddPrograms(refs ...ProgramRef) int {
	added := 0
	for _, ref := range refs {
		if !c.HasProgram(ref) {
			c.Programs = append(c.Programs, ref)
			added++
		}
	}
	return added
}

// HasGroup reports whether a group with the given identifier is already
// present on the course.
func (c *CourseRecord) HasGroup(identifier string) bool {
	for _, g := range c.Groups {
		if g.Identifier == identifier {
			return true
		}
	}
	return false
}

// AddGroups appends the groups whose identifier is not present yet. Groups
// are scoped to the record, so the same identifier on another course never
// collides with this one.
func (c *CourseRecord) AddGroups(groups ...ScheduleGroup) int {
	added := 0
	for _, g := range groups {
		if !c.HasGroup(g.Identifier) {
			c.Groups = append(c.Groups, cloneGroup(g))
			added++
		}
	}
	return added
}

// Backfill folds scalar metadata from a later source into the record
// according to policy.
func (c *CourseRecord) Backfill(policy Backfill, name string, credits, level int, requirements []string) {
	c.Name = policy.pickText(c.Name, name)
	c.Credits = policy.pickInt(c.Credits, credits)
	c.Level = policy.pickInt(c.Level, level)
	c.Requirements = policy.pickList(c.Requirements, requirements)
}

func (c CourseRecord) clone() CourseRecord {
	out := c
	out.Requirements = append([]string{}, c.Requirements...)
	out.Programs = append([]ProgramRef{}, c.Programs...)
	out.Groups = make([]ScheduleGroup, 0, len(c.Groups))
	for _, g := range c.Groups {
		out.Groups = append(out.Groups, cloneGroup(g))
	}
	return out
}

// finalize returns a copy ready to be serialized: no nil slices and a level
// of at least one.
func (c CourseRecord) finalize() CourseRecord {
	out := c.clone()
	if out.Level < 1 {
		out.Level = 1
	}
	if out.Credits < 0 {
		out.Credits = 0
	}
	return out
}

func cloneGroup(g ScheduleGroup) ScheduleGroup {
	out := g
	out.Schedule = append([]Session{}, g.Schedule...)
	return out
}
