package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openswoop/pensum/pkg/catalog"
	"github.com/openswoop/pensum/pkg/report"
	"go.uber.org/zap"
)

// CsvPaths returns the course and group CSV files written next to a catalog.
func CsvPaths(jsonPath string) (courses, groups string) {
	base := strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath))
	return base + ".csv", base + "_groups.csv"
}

// WriteCsvs writes the flat course and group views of records next to
// jsonPath and returns their paths.
func (p *Pipeline) WriteCsvs(jsonPath string, records catalog.Records) (string, string, error) {
	courses, groups := CsvPaths(jsonPath)
	if err := report.WriteCourses(courses, records); err != nil {
		return "", "", fmt.Errorf("write %s: %w", courses, err)
	}
	if err := report.WriteGroups(groups, records); err != nil {
		return "", "", fmt.Errorf("write %s: %w", groups, err)
	}
	p.Log.Info("csv written", zap.String("courses", courses), zap.String("groups", groups))
	return courses, groups, nil
}
