package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/openswoop/pensum/pkg/catalog"
	"google.golang.org/api/googleapi"
)

const coursesTable = "courses"

type bqSession struct {
	Day       string `bigquery:"day"`
	Time      string `bigquery:"time"`
	Building  string `bigquery:"building"`
	Room      string `bigquery:"room"`
	Professor string `bigquery:"professor"`
}

type bqGroup struct {
	Identifier string      `bigquery:"identifier"`
	Capacity   int         `bigquery:"capacity"`
	Enrolled   int         `bigquery:"enrolled"`
	Schedule   []bqSession `bigquery:"schedule"`
}

type bqCourse struct {
	SKU          string               `bigquery:"sku"`
	Name         string               `bigquery:"name"`
	Credits      int                  `bigquery:"credits"`
	Level        int                  `bigquery:"level"`
	Requirements []string             `bigquery:"requirements"`
	Groups       []bqGroup            `bigquery:"groups"`
	Programs     []catalog.ProgramRef `bigquery:"programs"`
	Refreshed    time.Time            `bigquery:"refreshed"`
}

func toBqCourse(rec catalog.CourseRecord, refreshed time.Time) bqCourse {
	row := bqCourse{
		SKU:          rec.SKU,
		Name:         rec.Name,
		Credits:      rec.Credits,
		Level:        rec.Level,
		Requirements: rec.Requirements,
		Programs:     rec.Programs,
		Refreshed:    refreshed,
	}
	for _, g := range rec.Groups {
		group := bqGroup{Identifier: g.Identifier, Capacity: g.Capacity, Enrolled: g.Enrolled}
		for _, s := range g.Schedule {
			group.Schedule = append(group.Schedule, bqSession(s))
		}
		row.Groups = append(row.Groups, group)
	}
	return row
}

type BigQuery struct {
	client  *bigquery.Client
	dataset *bigquery.Dataset
	now     func() time.Time
}

func NewBigQuery(ctx context.Context, projectID, datasetID string) (*BigQuery, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	dataset := client.Dataset(datasetID)
	if err := dataset.Create(ctx, nil); err != nil {
		if !isDuplicateError(err) {
			_ = client.Close()
			return nil, fmt.Errorf("failed to create dataset: %w", err)
		}
	}

	return &BigQuery{client: client, dataset: dataset, now: time.Now}, nil
}

// SaveCatalog uploads the records to a fresh arrivals table and merges them
// into the courses table by SKU. Courses missing from records are deleted.
func (bq *BigQuery) SaveCatalog(ctx context.Context, records []catalog.CourseRecord) error {
	refreshed := bq.now().UTC()
	rows := make([]bqCourse, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toBqCourse(rec, refreshed))
	}

	// Infer the table schema
	schema, err := bigquery.InferSchema(bqCourse{})
	if err != nil {
		return fmt.Errorf("failed to infer schema: %w", err)
	}

	// Get a reference to the table
	table := bq.dataset.Table(coursesTable)
	if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		if !isDuplicateError(err) {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Uses a different arrivals table each time, kept for auditing
	tempName := coursesTable + "_" + strconv.FormatInt(refreshed.Unix(), 10)
	newArrivals := bq.dataset.Table(tempName)
	if err := newArrivals.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		if !isDuplicateError(err) {
			return fmt.Errorf("failed to create arrivals table: %w", err)
		}
	}

	// Upload data
	u := newArrivals.Inserter()
	if err := u.Put(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}

	// Merge data
	q := bq.client.Query(mergeQuery(bq.dataset.DatasetID, coursesTable, tempName))
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for merge: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return nil
}

// mergedColumns are updated in place when a course already exists.
var mergedColumns = []string{"name", "credits", "level", "requirements", "groups", "programs", "refreshed"}

func mergeQuery(dataset, target, arrivals string) string {
	set := make([]string, 0, len(mergedColumns))
	for _, c := range mergedColumns {
		// GROUPS is a reserved keyword, so every column is quoted.
		set = append(set, fmt.Sprintf("`%[1]s` = s.`%[1]s`", c))
	}
	return fmt.Sprintf(`
		MERGE %[1]s.%[2]s t
		USING %[1]s.%[3]s s
		ON t.sku = s.sku
		WHEN MATCHED THEN
		  UPDATE
		    SET %[4]s
		WHEN NOT MATCHED THEN
		  INSERT ROW
		WHEN NOT MATCHED BY SOURCE THEN
		  DELETE`, dataset, target, arrivals, strings.Join(set, ",\n\t\t        "))
}

func (bq *BigQuery) Close() error {
	return bq.client.Close()
}

func isDuplicateError(err error) bool {
	var e *googleapi.Error
	if errors.As(err, &e) {
		return e.Code == 409
	}
	return false
}
