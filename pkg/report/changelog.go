package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/openswoop/pensum/pkg/catalog"
	"go.yaml.in/yaml/v3"
)

// Changelog is a Liquibase changelog for the MongoDB extension. Each change
// set inserts one batch of catalog documents.
type Changelog struct {
	DatabaseChangeLog []ChangeSetEntry `yaml:"databaseChangeLog"`
}

type ChangeSetEntry struct {
	ChangeSet ChangeSet `yaml:"changeSet"`
}

type ChangeSet struct {
	ID      string   `yaml:"id"`
	Author  string   `yaml:"author"`
	Changes []Change `yaml:"changes"`
}

type Change struct {
	InsertMany InsertMany `yaml:"insertMany"`
}

type InsertMany struct {
	CollectionName string `yaml:"collectionName"`
	// Documents is the JSON array of the batch, as the extension expects.
	Documents string `yaml:"documents"`
}

// NewChangelog splits records into change sets of batchSize documents with
// ids like import-subjects-batch-1.
func NewChangelog(records catalog.Records, collection, author string, batchSize int) (Changelog, error) {
	cl := Changelog{DatabaseChangeLog: []ChangeSetEntry{}}
	for i, batch := range records.Batches(batchSize) {
		docs, err := json.Marshal(batch)
		if err != nil {
			return cl, fmt.Errorf("batch %d: %w", i+1, err)
		}
		cl.DatabaseChangeLog = append(cl.DatabaseChangeLog, ChangeSetEntry{ChangeSet{
			ID:     fmt.Sprintf("import-%s-batch-%d", collection, i+1),
			Author: author,
			Changes: []Change{{InsertMany{
				CollectionName: collection,
				Documents:      string(docs),
			}}},
		}})
	}
	return cl, nil
}

func WriteChangelog(w io.Writer, cl Changelog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cl); err != nil {
		return err
	}
	return enc.Close()
}

// ReadChangelog parses a changelog and decodes every inserted document, in
// order. It is used to check a written changelog against its input.
func ReadChangelog(r io.Reader) (catalog.Records, error) {
	var cl Changelog
	if err := yaml.NewDecoder(r).Decode(&cl); err != nil {
		return nil, fmt.Errorf("decode changelog: %w", err)
	}
	records := catalog.Records{}
	for _, entry := range cl.DatabaseChangeLog {
		for _, change := range entry.ChangeSet.Changes {
			var batch catalog.Records
			if err := json.Unmarshal([]byte(change.InsertMany.Documents), &batch); err != nil {
				return nil, fmt.Errorf("change set %s: %w", entry.ChangeSet.ID, err)
			}
			records = append(records, batch...)
		}
	}
	return records, nil
}
