package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/openswoop/pensum/pkg/catalog"
)

// Metadata heads the enveloped catalog file.
type Metadata struct {
	Generated      time.Time `json:"generated"`
	TotalSubjects  int       `json:"totalSubjects"`
	SharedSubjects int       `json:"sharedSubjects"`
	Programs       int       `json:"programs"`
	RunID          string    `json:"runId"`
}

type Envelope struct {
	Metadata Metadata               `json:"metadata"`
	Subjects []catalog.CourseRecord `json:"subjects"`
}

// NewMetadata describes records produced from the given number of configured
// programs. Every call gets a fresh run id.
func NewMetadata(records []catalog.CourseRecord, programs int, now time.Time) Metadata {
	return Metadata{
		Generated:      now.UTC(),
		TotalSubjects:  len(records),
		SharedSubjects: Summarize(records).Shared,
		Programs:       programs,
		RunID:          uuid.NewString(),
	}
}

// CatalogDocument returns what a catalog file holds: the bare array when meta
// is nil, the envelope otherwise.
func CatalogDocument(records []catalog.CourseRecord, meta *Metadata) interface{} {
	if records == nil {
		records = []catalog.CourseRecord{}
	}
	if meta == nil {
		return records
	}
	return Envelope{Metadata: *meta, Subjects: records}
}

// WriteJSON writes v indented with two spaces, without HTML escaping.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSONFile writes v to fileName through a temporary file in the same
// directory, creating the directory if needed.
func WriteJSONFile(fileName string, v interface{}) error {
	dir := filepath.Dir(fileName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return err
	}
	if err := WriteJSON(tmp, v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fileName)
}
