package database

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/openswoop/pensum/pkg/catalog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/googleapi"
)

var _ Database = (*Sqlite)(nil)
var _ Database = (*BigQuery)(nil)
var _ Database = (*Mongo)(nil)

func sampleRecords() catalog.Records {
	return catalog.Records{
		{
			SKU: "100", Name: "CALC I", Credits: 4, Level: 1, Requirements: []string{"50", "60"},
			Groups: []catalog.ScheduleGroup{
				{Identifier: "A1", Capacity: 30, Enrolled: 20, Schedule: []catalog.Session{
					{Day: "LUNES", Time: "6-8", Building: "CENTRAL", Room: "301", Professor: "PEREZ"},
					{Day: "MIERCOLES", Time: "6-8", Building: "CENTRAL", Room: "301", Professor: "PEREZ"},
				}},
				{Identifier: "B1", Capacity: 25},
			},
			Programs: []catalog.ProgramRef{{Name: "SISTEMAS", ID: 11}, {Name: "CIVIL", ID: 21}},
		},
		{SKU: "200", Name: "ETICA", Credits: 2, Level: 1, Programs: []catalog.ProgramRef{{Name: "SISTEMAS", ID: 11}}},
	}
}

func TestSqliteSaveCatalogReplacesSnapshot(t *testing.T) {
	db, err := NewSqlite(filepath.Join(t.TempDir(), "pensum.db"))
	if err != nil {
		t.Fatalf("NewSqlite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	records := sampleRecords()
	// Saving twice must not duplicate anything.
	for i := 0; i < 2; i++ {
		if err := db.SaveCatalog(ctx, records); err != nil {
			t.Fatalf("SaveCatalog: %v", err)
		}
	}
	want := map[string]int64{"courses": 2, "course_programs": 3, "course_groups": 2, "group_sessions": 2}
	for table, n := range want {
		got, err := db.Count(table)
		if err != nil {
			t.Fatalf("Count(%s): %v", table, err)
		}
		if got != n {
			t.Errorf("%s has %d rows, want %d", table, got, n)
		}
	}

	if err := db.SaveCatalog(ctx, records[1:]); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}
	if got, _ := db.Count("courses"); got != 1 {
		t.Errorf("snapshot was not replaced, %d courses left", got)
	}
	if _, err := db.Count("sqlite_master"); err == nil {
		t.Errorf("Count accepted a table outside the snapshot")
	}
}

func TestToBqCourse(t *testing.T) {
	refreshed := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	row := toBqCourse(sampleRecords()[0], refreshed)
	if len(row.Groups) != 2 || len(row.Groups[0].Schedule) != 2 || row.Groups[1].Schedule != nil {
		t.Fatalf("unexpected groups %+v", row.Groups)
	}
	if diff := cmp.Diff(bqSession{Day: "LUNES", Time: "6-8", Building: "CENTRAL", Room: "301", Professor: "PEREZ"}, row.Groups[0].Schedule[0]); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}
	if !row.Refreshed.Equal(refreshed) || len(row.Programs) != 2 {
		t.Errorf("unexpected row %+v", row)
	}
}

func TestMergeQuery(t *testing.T) {
	q := mergeQuery("pensum", "courses", "courses_1700000000")
	for _, part := range []string{
		"MERGE pensum.courses t",
		"USING pensum.courses_1700000000 s",
		"ON t.sku = s.sku",
		"WHEN NOT MATCHED THEN",
		"WHEN NOT MATCHED BY SOURCE THEN",
		"`groups` = s.`groups`",
		"`level` = s.`level`",
	} {
		if !strings.Contains(q, part) {
			t.Errorf("query is missing %q:\n%s", part, q)
		}
	}
	// GROUPS is reserved in GoogleSQL and must never appear bare.
	if strings.Contains(q, " groups = ") {
		t.Errorf("groups column is not quoted:\n%s", q)
	}
}

func TestUpsertModels(t *testing.T) {
	records := sampleRecords()
	models := upsertModels(records)
	if len(models) != len(records) {
		t.Fatalf("got %d models, want %d", len(models), len(records))
	}
	for i, m := range models {
		replace, ok := m.(*mongo.ReplaceOneModel)
		if !ok {
			t.Fatalf("model %d is %T", i, m)
		}
		if diff := cmp.Diff(bson.M{"sku": records[i].SKU}, replace.Filter); diff != "" {
			t.Errorf("filter mismatch (-want +got):\n%s", diff)
		}
		if replace.Upsert == nil || !*replace.Upsert {
			t.Errorf("model %d is not an upsert", i)
		}
	}
}

func TestIsDuplicateError(t *testing.T) {
	if isDuplicateError(context.Canceled) {
		t.Errorf("a plain error is not a duplicate")
	}
	if !isDuplicateError(fmt.Errorf("create: %w", &googleapi.Error{Code: 409})) {
		t.Errorf("a wrapped 409 is a duplicate")
	}
}
