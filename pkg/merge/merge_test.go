package merge

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/openswoop/pensum/pkg/catalog"
)

var (
	progA = catalog.ProgramRef{Name: "SISTEMAS", ID: 11}
	progB = catalog.ProgramRef{Name: "CIVIL", ID: 21}
	progC = catalog.ProgramRef{Name: "QUIMICA", ID: 14}
)

type pensumRow struct {
	entry   catalog.PensumEntry
	program catalog.ProgramRef
}

func row(code, name string, credits int, program catalog.ProgramRef) pensumRow {
	return pensumRow{catalog.PensumEntry{Code: code, Name: name, Credits: credits}, program}
}

func pensumOf(rows ...pensumRow) *catalog.PensumMap {
	m := catalog.NewPensumMap()
	for _, r := range rows {
		m.Add(r.entry, r.program, catalog.FirstNonEmpty)
	}
	return m
}

func attributed(ref catalog.ProgramRef, courses ...catalog.ScheduleCourse) catalog.ScheduleSource {
	return catalog.ScheduleSource{Name: ref.Name, Program: &ref, Courses: courses}
}

func consolidated(courses ...catalog.ScheduleCourse) catalog.ScheduleSource {
	return catalog.ScheduleSource{Name: "general", Courses: courses}
}

func group(id string) catalog.ScheduleGroup {
	return catalog.ScheduleGroup{Identifier: id, Capacity: 30, Schedule: []catalog.Session{{Day: "LUNES", Time: "6-8"}}}
}

func find(t *testing.T, records catalog.Records, sku string) catalog.CourseRecord {
	t.Helper()
	for _, r := range records {
		if r.SKU == sku {
			return r
		}
	}
	t.Fatalf("sku %s not in output", sku)
	return catalog.CourseRecord{}
}

func TestMergeBackfillsCreditsAcrossPrograms(t *testing.T) {
	pensum := pensumOf(
		row("100", "CALC I", 4, progA),
		row("100", "CALC I", 0, progB),
	)
	records, err := Merge(pensum, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := catalog.Records{{
		SKU:          "100",
		Name:         "CALC I",
		Credits:      4,
		Requirements: []string{},
		Level:        1,
		Groups:       []catalog.ScheduleGroup{},
		Programs:     []catalog.ProgramRef{progA, progB},
	}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeZeroCreditsFirst(t *testing.T) {
	pensum := pensumOf(
		row("100", "CALC I", 0, progA),
		row("100", "CALC I", 3, progB),
	)
	records, err := Merge(pensum, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := find(t, records, "100").Credits; got != 3 {
		t.Errorf("credits = %d, want 3", got)
	}
}

func TestMergeEmptyGroupsNeverOverwrite(t *testing.T) {
	pensum := pensumOf(row("100", "CALC I", 4, progA))
	sources := []catalog.ScheduleSource{
		attributed(progA, catalog.ScheduleCourse{SKU: "100", Groups: []catalog.ScheduleGroup{group("A1")}}),
		attributed(progB, catalog.ScheduleCourse{SKU: "100", Groups: []catalog.ScheduleGroup{}}),
	}
	records, err := Merge(pensum, sources, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	rec := find(t, records, "100")
	if diff := cmp.Diff([]catalog.ScheduleGroup{group("A1")}, rec.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]catalog.ProgramRef{progA, progB}, rec.Programs); diff != "" {
		t.Errorf("programs mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeGroupsKeyedBySKUAndIdentifier(t *testing.T) {
	sources := []catalog.ScheduleSource{
		attributed(progA,
			catalog.ScheduleCourse{SKU: "100", Groups: []catalog.ScheduleGroup{group("A1"), group("B1")}},
			catalog.ScheduleCourse{SKU: "200", Groups: []catalog.ScheduleGroup{group("A1")}},
		),
		attributed(progB,
			catalog.ScheduleCourse{SKU: "100", Groups: []catalog.ScheduleGroup{group("A1"), group("C1")}},
		),
	}
	records, err := Merge(catalog.NewPensumMap(), sources, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	ids := func(rec catalog.CourseRecord) []string {
		var out []string
		for _, g := range rec.Groups {
			out = append(out, g.Identifier)
		}
		return out
	}
	if diff := cmp.Diff([]string{"A1", "B1", "C1"}, ids(find(t, records, "100"))); diff != "" {
		t.Errorf("groups of 100 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A1"}, ids(find(t, records, "200"))); diff != "" {
		t.Errorf("groups of 200 (-want +got):\n%s", diff)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	pensum := pensumOf(row("100", "CALC I", 4, progA), row("200", "FISICA", 3, progB))
	src := attributed(progA,
		catalog.ScheduleCourse{SKU: "100", Groups: []catalog.ScheduleGroup{group("A1")}},
		catalog.ScheduleCourse{SKU: "300", Name: "ETICA", Credits: 2, Groups: []catalog.ScheduleGroup{group("E1")}},
	)

	once, err := Merge(pensum, []catalog.ScheduleSource{src}, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	twice, err := Merge(pensum, []catalog.ScheduleSource{src, src}, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("merging a file twice changed the output (-once +twice):\n%s", diff)
	}
}

func TestMergeContextCoursesGetFullRoster(t *testing.T) {
	pensum := pensumOf(
		row("100", "CALC I", 4, progA),
		row("200", "FISICA", 3, progB),
		row("300", "QUIMICA", 3, progC),
	)
	sources := []catalog.ScheduleSource{
		consolidated(
			catalog.ScheduleCourse{SKU: "900", Name: "DEPORTES", Groups: []catalog.ScheduleGroup{group("D1")}},
			catalog.ScheduleCourse{SKU: "100", Groups: []catalog.ScheduleGroup{group("A1")}},
		),
	}

	records, err := Merge(pensum, sources, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff(pensum.Roster(), find(t, records, "900").Programs); diff != "" {
		t.Errorf("context course roster (-want +got):\n%s", diff)
	}
	// A course the pensum already attributes keeps its own programs.
	if diff := cmp.Diff([]catalog.ProgramRef{progA}, find(t, records, "100").Programs); diff != "" {
		t.Errorf("attributed course programs (-want +got):\n%s", diff)
	}

	opts := DefaultOptions()
	opts.FanOutContext = false
	records, err = Merge(pensum, sources, opts)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := find(t, records, "900").Programs; len(got) != 0 {
		t.Errorf("fan out disabled, got programs %v", got)
	}
}

func TestMergeFanOutWithEmptyRoster(t *testing.T) {
	sources := []catalog.ScheduleSource{
		consolidated(catalog.ScheduleCourse{SKU: "900", Name: "DEPORTES"}),
	}
	records, stats, err := MergeStats(nil, sources, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got := find(t, records, "900").Programs; len(got) != 0 {
		t.Errorf("expected no programs, got %v", got)
	}
	if stats.FannedOut != 0 || stats.ProgramsAdded != 0 {
		t.Errorf("nothing was fanned out, got %+v", stats)
	}
}

func TestMergePreservesEverySKU(t *testing.T) {
	pensum := pensumOf(
		row("20", "A", 1, progA),
		row("100", "B", 1, progA),
		row("100", "B", 1, progB),
	)
	sources := []catalog.ScheduleSource{
		attributed(progB, catalog.ScheduleCourse{SKU: "003"}, catalog.ScheduleCourse{SKU: " 20 "}),
		consolidated(catalog.ScheduleCourse{SKU: "B7"}, catalog.ScheduleCourse{SKU: ""}),
	}
	records, stats, err := MergeStats(pensum, sources, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	var got []string
	for _, r := range records {
		got = append(got, r.SKU)
	}
	if diff := cmp.Diff([]string{"003", "100", "20", "B7"}, got); diff != "" {
		t.Errorf("skus (-want +got):\n%s", diff)
	}
	if stats.Seeded != 2 || stats.Added != 2 || stats.FannedOut != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestMergeScheduleFallbackMetadata(t *testing.T) {
	sources := []catalog.ScheduleSource{
		attributed(progA, catalog.ScheduleCourse{SKU: "500", Name: "ELECTIVA", Credits: 3, Level: 6, Requirements: []string{"100"}}),
		attributed(progB, catalog.ScheduleCourse{SKU: "500", Name: "ELECTIVA II", Credits: 4}),
	}
	records, err := Merge(nil, sources, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	rec := find(t, records, "500")
	if rec.Name != "ELECTIVA" || rec.Credits != 3 || rec.Level != 6 {
		t.Errorf("first non empty values should win, got %+v", rec)
	}

	opts := DefaultOptions()
	opts.Backfill = catalog.Overwrite
	records, err = Merge(nil, sources, opts)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	rec = find(t, records, "500")
	if rec.Name != "ELECTIVA II" || rec.Credits != 4 || rec.Level != 6 {
		t.Errorf("later non empty values should win, got %+v", rec)
	}
}

func TestMergeRoundTrip(t *testing.T) {
	pensum := pensumOf(row("100", "CALC I", 4, progA), row("100", "CALC I", 4, progB), row("20", "FISICA", 3, progB))
	sources := []catalog.ScheduleSource{
		attributed(progA, catalog.ScheduleCourse{SKU: "100", Groups: []catalog.ScheduleGroup{group("A1"), group("B2")}}),
		consolidated(catalog.ScheduleCourse{SKU: "900", Name: "DEPORTES", Groups: []catalog.ScheduleGroup{group("D1")}}),
	}
	records, err := Merge(pensum, sources, DefaultOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var parsed catalog.Records
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	normalize := func(rs catalog.Records) catalog.Records {
		out := rs.Apply()
		for i := range out {
			sort.Slice(out[i].Groups, func(a, b int) bool { return out[i].Groups[a].Identifier < out[i].Groups[b].Identifier })
			sort.Slice(out[i].Programs, func(a, b int) bool { return out[i].Programs[a].Name < out[i].Programs[b].Name })
		}
		return out
	}
	if diff := cmp.Diff(normalize(records), normalize(parsed)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFuse(t *testing.T) {
	records := catalog.Records{
		{SKU: "100", Name: "CALC I", Groups: []catalog.ScheduleGroup{group("A1")}, Programs: []catalog.ProgramRef{progA}},
		{SKU: "200", Name: "FISICA", Groups: []catalog.ScheduleGroup{}, Programs: []catalog.ProgramRef{progA, progB}},
		{SKU: "300", Name: "QUIMICA", Groups: []catalog.ScheduleGroup{}, Programs: []catalog.ProgramRef{progC}},
		{SKU: "400", Name: "ETICA", Groups: []catalog.ScheduleGroup{group("E1")}, Programs: []catalog.ProgramRef{progC}},
	}
	groups := map[string][]catalog.ScheduleGroup{
		"100": {group("A1"), group("B1")},
		"200": {group("F1")},
		"300": {},
		"400": {group("E1")},
	}
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	out, report, err := Fuse(records, groups, catalog.FirstNonEmpty, now)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if got := len(find(t, out, "100").Groups); got != 2 {
		t.Errorf("100 should have 2 groups, got %d", got)
	}
	if len(records[0].Groups) != 1 {
		t.Errorf("Fuse modified its input")
	}
	wantSummary := FusionSummary{Total: 4, Updated: 2, Unchanged: 2}
	if diff := cmp.Diff(wantSummary, report.Summary); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
	wantUpdated := []FusedCourse{
		{SKU: "100", Name: "CALC I", GroupsAdded: 1, Programs: []string{"SISTEMAS"}},
		{SKU: "200", Name: "FISICA", GroupsAdded: 1, Programs: []string{"SISTEMAS", "CIVIL"}},
	}
	if diff := cmp.Diff(wantUpdated, report.Updated); diff != "" {
		t.Errorf("updated (-want +got):\n%s", diff)
	}
	if report.Unchanged[0].Reason != reasonNoGroups || report.Unchanged[1].Reason != reasonUpToDate {
		t.Errorf("unexpected reasons %+v", report.Unchanged)
	}
	if !report.Generated.Equal(now) {
		t.Errorf("generated = %v", report.Generated)
	}

	out, report, err = Fuse(records, groups, catalog.Overwrite, now)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if diff := cmp.Diff(groups["100"], find(t, out, "100").Groups); diff != "" {
		t.Errorf("overwrite should replace groups (-want +got):\n%s", diff)
	}
	if report.Summary.Updated != 3 {
		t.Errorf("overwrite updated %d records, want 3", report.Summary.Updated)
	}
}

func TestFuseRejectsDuplicateSKUs(t *testing.T) {
	records := catalog.Records{{SKU: "100"}, {SKU: "100"}}
	_, _, err := Fuse(records, nil, catalog.FirstNonEmpty, time.Now())
	var dup *catalog.DuplicateSKUError
	if !errors.As(err, &dup) {
		t.Fatalf("expected a DuplicateSKUError, got %v", err)
	}
}

func TestSharedListsMultiProgramCodes(t *testing.T) {
	pensum := pensumOf(
		row("200", "Física I", 3, progA),
		row("100", "CALC I", 4, progA),
		row("300", "ETICA", 2, progA),
		row("100", "CALCULO I", 0, progB),
		row("200", "FÍSICA I", 3, progB),
		row("200", "física  i", 3, progC),
	)

	records, conflicts := Shared(pensum)
	if diff := cmp.Diff([]string{"100", "200"}, skus(records)); diff != "" {
		t.Fatalf("shared codes (-want +got):\n%s", diff)
	}
	calc := find(t, records, "100")
	if calc.Name != "CALC I" || calc.Credits != 4 || len(calc.Groups) != 0 {
		t.Errorf("unexpected record %+v", calc)
	}
	if diff := cmp.Diff([]catalog.ProgramRef{progA, progB, progC}, find(t, records, "200").Programs); diff != "" {
		t.Errorf("programs (-want +got):\n%s", diff)
	}

	want := []NameConflict{{SKU: "100", Names: []string{"CALC I", "CALCULO I"}}}
	if diff := cmp.Diff(want, conflicts); diff != "" {
		t.Errorf("conflicts (-want +got):\n%s", diff)
	}
}

func skus(records catalog.Records) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.SKU)
	}
	return out
}
