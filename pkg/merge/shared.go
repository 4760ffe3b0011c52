package merge

import (
	"github.com/openswoop/pensum/pkg/catalog"
)

// NameConflict is a course code that programs list under different names.
type NameConflict struct {
	SKU   string
	Names []string
}

// Shared returns the pensum courses listed by more than one program, as
// finalized records with no groups, along with the shared codes whose name
// differs between programs.
func Shared(pensum *catalog.PensumMap) (catalog.Records, []NameConflict) {
	c := catalog.New()
	var conflicts []NameConflict
	for _, code := range pensum.Shared() {
		entry, _ := pensum.Get(code)
		c.Put(entry.Record())
		if len(entry.Names) > 1 {
			conflicts = append(conflicts, NameConflict{SKU: code, Names: append([]string{}, entry.Names...)})
		}
	}
	return c.Records(), conflicts
}
