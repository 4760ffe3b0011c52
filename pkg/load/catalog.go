package load

import (
	"bytes"
	"encoding/json"

	"github.com/openswoop/pensum/pkg/catalog"
)

// Catalog reads a merged catalog previously written by the merge command,
// either a bare array of records or the metadata envelope.
func Catalog(path string) (catalog.Records, error) {
	records, _, err := CatalogFile(path)
	return records, err
}

// CatalogFile is Catalog that also reports whether the file was enveloped,
// so a rewrite can keep its shape.
func CatalogFile(path string) (catalog.Records, bool, error) {
	raw, ferr := readJSON(path, "")
	if ferr != nil {
		return nil, false, ferr
	}

	var records catalog.Records
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, false, fileError(path, "", ErrStructuralMismatch, err.Error())
		}
		return records, false, nil
	}

	var envelope struct {
		Subjects *catalog.Records `json:"subjects"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, true, fileError(path, "", ErrStructuralMismatch, err.Error())
	}
	if envelope.Subjects == nil {
		return nil, true, fileError(path, "", ErrStructuralMismatch, "no subjects array")
	}
	return *envelope.Subjects, true, nil
}
