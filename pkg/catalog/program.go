package catalog

import "strings"

// Program is an academic program whose curriculum and schedule files feed the
// catalog.
type Program struct {
	Name       string `json:"name" mapstructure:"name"`
	ID         int    `json:"id" mapstructure:"id"`
	File       string `json:"file" mapstructure:"file"`               // schedule file
	PensumFile string `json:"pensum_file" mapstructure:"pensum_file"` // curriculum file
	NewPensum  bool   `json:"new_pensum" mapstructure:"new_pensum"`
}

// Ref is the attribution stored on course records.
func (p Program) Ref() ProgramRef {
	return ProgramRef{Name: p.Name, ID: p.ID, NewPensum: p.NewPensum || IsNewPensum(p.Name)}
}

// IsNewPensum reports whether the program name marks the newer curriculum.
func IsNewPensum(name string) bool {
	return strings.Contains(FoldName(name), "NUEVO")
}

func program(name string, id int, file, pensumFile string) Program {
	return Program{Name: name, ID: id, File: file, PensumFile: pensumFile, NewPensum: IsNewPensum(name)}
}

// DefaultPrograms is the roster used when the config file does not list one.
// Both MICROBIOLOGIA programs read the same curriculum file.
var DefaultPrograms = []Program{
	program("INGENIERIA DE SISTEMAS", 11, "sistemas.json", "sistemas.json"),
	program("DISEÑO INDUSTRIAL NUEVO", 27, "diseño.json", "diseño.json"),
	program("DISEÑO INDUSTRIAL", 27, "diseño_antiguo.json", "diseño_antiguo.json"),
	program("INGENIERIA BIOMEDICA", 69, "biomedica.json", "biomedica.json"),
	program("INGENIERIA EN CIENCIA DE DATOS", 50, "datos.json", "datos.json"),
	program("INGENIERIA CIVIL", 21, "civil.json", "civil.json"),
	program("INGENIERIA DE PETROLEOS", 32, "petroleos.json", "petroleos.json"),
	program("QUIMICA", 14, "quimica.json", "quimica.json"),
	program("MICROBIOLOGIA NUEVO", 58, "microbiologia_nuevo.json", "microbiologia.json"),
	program("MICROBIOLOGIA", 58, "microbiologia.json", "microbiologia.json"),
	program("INGENIERIA MECANICA", 24, "mecanica.json", "mecanica.json"),
	program("INGENIERIA INDUSTRIAL", 23, "industrial.json", "industrial.json"),
	program("INGENIERIA QUIMICA", 33, "ing_quimica.json", "ing_quimica.json"),
	program("NUTRICION", 57, "nutricion.json", "nutricion.json"),
	program("INTELIGENCIA ARTIFICIAL", 47, "inteligencia_artificial.json", "inteligencia_artificial.json"),
	program("BIOLOGIA", 10, "biologia.json", "biologia.json"),
	program("LICENCIATURA EN MATEMATICAS", 16, "lic_matematicas.json", "lic_matematicas.json"),
	program("MATEMATICAS", 39, "matematicas.json", "matematicas.json"),
	program("MUSICA", 30, "musica.json", "musica.json"),
	program("FISICA", 40, "fisica.json", "fisica.json"),
	program("FISIOTERAPIA", 56, "fisioterapia.json", "fisioterapia.json"),
}
