package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openswoop/pensum/pkg/catalog"
	"github.com/openswoop/pensum/pkg/database"
	"github.com/openswoop/pensum/pkg/report"
	"go.uber.org/zap"
)

// ChangelogFile and VerifyFile are the default outputs of a changelog export.
const (
	ChangelogFile = "009_migration_data_subjects.yaml"
	VerifyFile    = "subjects_reconstructed.json"
)

// Save stores records through db and closes it.
func (p *Pipeline) Save(ctx context.Context, db database.Database, records catalog.Records) error {
	defer db.Close()
	start := time.Now()
	if err := db.SaveCatalog(ctx, records); err != nil {
		return err
	}
	p.Log.Info("catalog saved",
		zap.String("target", fmt.Sprintf("%T", db)),
		zap.Int("subjects", len(records)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// ChangelogResult reports a changelog export and its verification.
type ChangelogResult struct {
	Path       string
	VerifyPath string
	ChangeSets int
	Input      int
	Output     int
}

// Matches reports whether every input document made it into the changelog.
func (r ChangelogResult) Matches() bool {
	return r.Input == r.Output
}

// Changelog writes records as a Liquibase changelog to path, then reads it
// back and writes the reconstructed documents to verifyPath so the two
// counts can be compared.
func (p *Pipeline) Changelog(records catalog.Records, path, verifyPath string) (*ChangelogResult, error) {
	cl, err := report.NewChangelog(records, p.Config.MongoCollection, p.Config.ChangelogAuthor, p.Config.ChangelogBatchSize)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := report.WriteChangelog(f, cl); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	f, err = os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reconstructed, err := report.ReadChangelog(f)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", path, err)
	}
	if err := report.WriteJSONFile(verifyPath, reconstructed); err != nil {
		return nil, fmt.Errorf("write %s: %w", verifyPath, err)
	}

	res := &ChangelogResult{
		Path:       path,
		VerifyPath: verifyPath,
		ChangeSets: len(cl.DatabaseChangeLog),
		Input:      len(records),
		Output:     len(reconstructed),
	}
	if !res.Matches() {
		p.Log.Warn("changelog count mismatch", zap.Int("input", res.Input), zap.Int("output", res.Output))
	}
	return res, nil
}
