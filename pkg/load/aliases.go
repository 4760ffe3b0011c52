package load

// Aliases lists, for every canonical field, the keys it may appear under in
// input files. Keys are tried in order and the first one holding a non-empty
// value wins.
type Aliases struct {
	SKU          []string `mapstructure:"sku"`
	Name         []string `mapstructure:"name"`
	Credits      []string `mapstructure:"credits"`
	Level        []string `mapstructure:"level"`
	Requirements []string `mapstructure:"requirements"`
	Groups       []string `mapstructure:"groups"`

	Identifier []string `mapstructure:"identifier"`
	Capacity   []string `mapstructure:"capacity"`
	Enrolled   []string `mapstructure:"enrolled"`
	Schedule   []string `mapstructure:"schedule"`

	Day       []string `mapstructure:"day"`
	Time      []string `mapstructure:"time"`
	Building  []string `mapstructure:"building"`
	Room      []string `mapstructure:"room"`
	Professor []string `mapstructure:"professor"`
}

// DefaultAliases covers the Spanish portal export and every English variant
// the scraping scripts have produced. A group's plain name ("A1") is preferred
// over the composite "<sku>-A1" some exports store under "sku".
var DefaultAliases = Aliases{
	SKU:          []string{"sku", "codigo", "code"},
	Name:         []string{"name", "nombre"},
	Credits:      []string{"credits", "creditos"},
	Level:        []string{"level", "nivel"},
	Requirements: []string{"requirements", "requisitos", "requisites"},
	Groups:       []string{"groups", "grupos"},

	Identifier: []string{"identifier", "group", "groups", "grupo", "sku"},
	Capacity:   []string{"capacity", "capacidad"},
	Enrolled:   []string{"enrolled", "matriculados"},
	Schedule:   []string{"schedule", "horario"},

	Day:       []string{"day", "dia"},
	Time:      []string{"time", "hora"},
	Building:  []string{"building", "edificio"},
	Room:      []string{"room", "aula"},
	Professor: []string{"professor", "profesor"},
}

// Merge returns a copy of a where every empty list is taken from def.
func (a Aliases) Merge(def Aliases) Aliases {
	pick := func(v, d []string) []string {
		if len(v) == 0 {
			return d
		}
		return v
	}
	return Aliases{
		SKU:          pick(a.SKU, def.SKU),
		Name:         pick(a.Name, def.Name),
		Credits:      pick(a.Credits, def.Credits),
		Level:        pick(a.Level, def.Level),
		Requirements: pick(a.Requirements, def.Requirements),
		Groups:       pick(a.Groups, def.Groups),
		Identifier:   pick(a.Identifier, def.Identifier),
		Capacity:     pick(a.Capacity, def.Capacity),
		Enrolled:     pick(a.Enrolled, def.Enrolled),
		Schedule:     pick(a.Schedule, def.Schedule),
		Day:          pick(a.Day, def.Day),
		Time:         pick(a.Time, def.Time),
		Building:     pick(a.Building, def.Building),
		Room:         pick(a.Room, def.Room),
		Professor:    pick(a.Professor, def.Professor),
	}
}
