package report

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/openswoop/pensum/pkg/catalog"
)

func WriteCsv(in interface{}, fileName string) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(in, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func programNames(refs []catalog.ProgramRef) []string {
	names := make([]string, 0, len(refs))
	for _, p := range refs {
		names = append(names, p.Name)
	}
	return names
}

func joinList(items []string) string {
	return strings.Join(items, ";")
}
