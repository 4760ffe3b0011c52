package load

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/openswoop/pensum/pkg/catalog"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Loader reads pensum and schedule files, canonicalizing their keys. Problems
// with individual files are logged and collected instead of returned, so one
// bad file never stops the others from loading.
type Loader struct {
	Aliases  Aliases
	Backfill catalog.Backfill
	Log      *zap.Logger

	issues error
}

func NewLoader(aliases Aliases, policy catalog.Backfill, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		Aliases:  aliases.Merge(DefaultAliases),
		Backfill: policy,
		Log:      log,
	}
}

// Issues returns every non-fatal problem seen so far, in order.
func (l *Loader) Issues() []error {
	return multierr.Errors(l.issues)
}

func (l *Loader) warn(err *FileError) {
	l.Log.Warn("skipping input",
		zap.String("path", err.Path),
		zap.String("program", err.Program),
		zap.Error(err.Err))
	multierr.AppendInto(&l.issues, err)
}

func (l *Loader) record(err error) {
	var ferr *FileError
	if !errors.As(err, &ferr) {
		ferr = &FileError{Err: err}
	}
	l.warn(ferr)
}

// Pensum loads the curriculum file of every program found in dir. A missing
// directory is the only error returned; missing or unreadable files are
// recorded as issues.
func (l *Loader) Pensum(dir string, programs []catalog.Program) (*catalog.PensumMap, error) {
	if err := requireDir(dir); err != nil {
		return nil, fmt.Errorf("pensum directory %s: %w", dir, err)
	}

	pensum := catalog.NewPensumMap()
	for _, p := range programs {
		file := p.PensumFile
		if file == "" {
			file = p.File
		}
		path := filepath.Join(dir, file)

		rows, ferr := l.pensumFile(path, p.Name)
		if ferr != nil {
			l.warn(ferr)
			continue
		}
		for _, row := range rows {
			pensum.Add(row, p.Ref(), l.Backfill)
		}
		l.Log.Debug("loaded pensum",
			zap.String("program", p.Name),
			zap.String("path", path),
			zap.Int("courses", len(rows)))
	}
	l.Log.Info("pensum loaded",
		zap.Int("courses", pensum.Len()),
		zap.Int("shared", len(pensum.Shared())),
		zap.Int("programs", len(pensum.Roster())))
	return pensum, nil
}

func (l *Loader) pensumFile(path, program string) ([]catalog.PensumEntry, *FileError) {
	raw, ferr := readJSON(path, program)
	if ferr != nil {
		return nil, ferr
	}
	root, err := asObject(raw)
	if err != nil {
		return nil, fileError(path, program, ErrStructuralMismatch, "top level is not an object")
	}
	materias, ok := root["materias"]
	if !ok || isNull(materias) {
		return nil, fileError(path, program, ErrStructuralMismatch, "no materias array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(materias, &items); err != nil {
		return nil, fileError(path, program, ErrStructuralMismatch, "materias is not an array")
	}

	rows := make([]catalog.PensumEntry, 0, len(items))
	for i, item := range items {
		row, err := l.pensumRow(item)
		if err != nil {
			l.warn(fileError(path, program, ErrStructuralMismatch, fmt.Sprintf("materia %d: %v", i, err)))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *Loader) pensumRow(raw json.RawMessage) (catalog.PensumEntry, error) {
	var row catalog.PensumEntry
	o, err := asObject(raw)
	if err != nil {
		return row, err
	}
	if row.Code, err = o.text(l.Aliases.SKU); err != nil {
		return row, err
	}
	if row.Code == "" {
		return row, errors.New("no course code")
	}
	if row.Name, err = o.text(l.Aliases.Name); err != nil {
		return row, err
	}
	if row.Credits, err = o.int(l.Aliases.Credits); err != nil {
		return row, err
	}
	if row.Level, err = o.int(l.Aliases.Level); err != nil {
		return row, err
	}
	if row.Requisites, err = o.codes(l.Aliases.Requirements); err != nil {
		return row, err
	}
	return row, nil
}

// Schedules loads the schedule file of every program from dir, followed by
// the consolidated files. A file referenced by more than one program, or
// named in consolidated, becomes a single source with no program attribution.
// A missing directory is recorded as an issue and yields no sources; any other
// problem with dir is returned.
func (l *Loader) Schedules(dir string, programs []catalog.Program, consolidated []string) ([]catalog.ScheduleSource, error) {
	if err := requireDir(dir); errors.Is(err, ErrMissingFile) {
		l.warn(&FileError{Path: dir, Err: err})
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("schedule directory %s: %w", dir, err)
	}

	isConsolidated := make(map[string]bool, len(consolidated))
	for _, name := range consolidated {
		isConsolidated[name] = true
	}

	var files []string
	users := make(map[string][]catalog.Program)
	for _, p := range programs {
		if p.File == "" {
			continue
		}
		if _, seen := users[p.File]; !seen {
			files = append(files, p.File)
		}
		users[p.File] = append(users[p.File], p)
	}

	var sources []catalog.ScheduleSource
	for _, file := range files {
		var owner *catalog.ProgramRef
		if len(users[file]) == 1 && !isConsolidated[file] {
			ref := users[file][0].Ref()
			owner = &ref
		}
		src, err := l.ScheduleFile(filepath.Join(dir, file), owner)
		if err != nil {
			l.record(err)
			continue
		}
		sources = append(sources, src)
	}

	for _, file := range consolidated {
		if _, loaded := users[file]; loaded {
			continue
		}
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			l.Log.Debug("no consolidated schedule", zap.String("path", path))
			continue
		}
		src, err := l.ScheduleFile(path, nil)
		if err != nil {
			l.record(err)
			continue
		}
		sources = append(sources, src)
	}

	l.Log.Info("schedules loaded", zap.Int("sources", len(sources)))
	return sources, nil
}

// ScheduleFile reads one schedule file. The file may hold an array of
// courses, an envelope with a subjects array, or a single course object.
// Entries without a course code are recorded as issues and skipped. The
// returned error is always a *FileError.
func (l *Loader) ScheduleFile(path string, program *catalog.ProgramRef) (catalog.ScheduleSource, error) {
	src := catalog.ScheduleSource{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		Program: program,
	}
	label := ""
	if program != nil {
		label = program.Name
	}

	raw, ferr := readJSON(path, label)
	if ferr != nil {
		return src, ferr
	}
	items, ferr := l.courseItems(raw, path, label)
	if ferr != nil {
		return src, ferr
	}

	src.Courses = make([]catalog.ScheduleCourse, 0, len(items))
	for i, item := range items {
		course, err := l.scheduleCourse(item)
		if err != nil {
			l.warn(fileError(path, label, ErrStructuralMismatch, fmt.Sprintf("entry %d: %v", i, err)))
			continue
		}
		src.Courses = append(src.Courses, course)
	}
	l.Log.Debug("loaded schedule",
		zap.String("path", path),
		zap.String("program", label),
		zap.Int("courses", len(src.Courses)))
	return src, nil
}

func (l *Loader) courseItems(raw json.RawMessage, path, program string) ([]json.RawMessage, *FileError) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	root, err := asObject(raw)
	if err != nil {
		return nil, fileError(path, program, ErrStructuralMismatch, "expected an array or an object")
	}
	if subjects, ok := root["subjects"]; ok {
		if err := json.Unmarshal(subjects, &items); err != nil {
			return nil, fileError(path, program, ErrStructuralMismatch, "subjects is not an array")
		}
		return items, nil
	}
	if _, ok := root.raw(l.Aliases.SKU); ok {
		return []json.RawMessage{raw}, nil
	}
	return nil, fileError(path, program, ErrStructuralMismatch, "no course entries")
}

func (l *Loader) scheduleCourse(raw json.RawMessage) (catalog.ScheduleCourse, error) {
	var c catalog.ScheduleCourse
	o, err := asObject(raw)
	if err != nil {
		return c, err
	}
	if c.SKU, err = o.text(l.Aliases.SKU); err != nil {
		return c, err
	}
	if c.SKU == "" {
		return c, errors.New("no course code")
	}
	if c.Name, err = o.text(l.Aliases.Name); err != nil {
		return c, err
	}
	if c.Credits, err = o.int(l.Aliases.Credits); err != nil {
		return c, err
	}
	if c.Level, err = o.int(l.Aliases.Level); err != nil {
		return c, err
	}
	if c.Requirements, err = o.codes(l.Aliases.Requirements); err != nil {
		return c, err
	}
	items, err := o.list(l.Aliases.Groups)
	if err != nil {
		return c, err
	}
	c.Groups = make([]catalog.ScheduleGroup, 0, len(items))
	for i, item := range items {
		g, err := l.scheduleGroup(item)
		if err != nil {
			return c, fmt.Errorf("group %d: %w", i, err)
		}
		c.Groups = append(c.Groups, g)
	}
	return c, nil
}

func (l *Loader) scheduleGroup(raw json.RawMessage) (catalog.ScheduleGroup, error) {
	var g catalog.ScheduleGroup
	o, err := asObject(raw)
	if err != nil {
		return g, err
	}
	g.Identifier = l.identifier(o)
	if g.Capacity, err = o.int(l.Aliases.Capacity); err != nil {
		return g, err
	}
	if g.Enrolled, err = o.int(l.Aliases.Enrolled); err != nil {
		return g, err
	}
	items, err := o.list(l.Aliases.Schedule)
	if err != nil {
		return g, err
	}
	g.Schedule = make([]catalog.Session, 0, len(items))
	for i, item := range items {
		s, err := l.session(item)
		if err != nil {
			return g, fmt.Errorf("session %d: %w", i, err)
		}
		g.Schedule = append(g.Schedule, s)
	}
	return g, nil
}

// identifier tries each alias in order and takes the first one holding a
// scalar. Aliases like "groups" may hold a nested list on some exports, which
// is skipped rather than treated as an error.
func (l *Loader) identifier(o object) string {
	for _, key := range l.Aliases.Identifier {
		v, ok := o[key]
		if !ok || isNull(v) {
			continue
		}
		s, err := text(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (l *Loader) session(raw json.RawMessage) (catalog.Session, error) {
	var s catalog.Session
	o, err := asObject(raw)
	if err != nil {
		return s, err
	}
	fields := []struct {
		dst  *string
		keys []string
	}{
		{&s.Day, l.Aliases.Day},
		{&s.Time, l.Aliases.Time},
		{&s.Building, l.Aliases.Building},
		{&s.Room, l.Aliases.Room},
		{&s.Professor, l.Aliases.Professor},
	}
	for _, f := range fields {
		if *f.dst, err = o.text(f.keys); err != nil {
			return s, err
		}
	}
	return s, nil
}

func readJSON(path, program string) (json.RawMessage, *FileError) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fileError(path, program, ErrMissingFile, "")
	}
	if err != nil {
		return nil, &FileError{Path: path, Program: program, Err: err}
	}
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fileError(path, program, ErrMalformedJSON, err.Error())
	}
	return raw, nil
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrMissingFile
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory")
	}
	return nil
}
