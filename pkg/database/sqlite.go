package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-gorp/gorp/v3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/openswoop/pensum/pkg/catalog"
	"github.com/openswoop/pensum/pkg/persist"
)

type courseRow struct {
	SKU          string `db:"sku"`
	Name         string `db:"name"`
	Credits      int    `db:"credits"`
	Level        int    `db:"level"`
	Requirements string `db:"requirements"`
}

type programRow struct {
	SKU       string `db:"sku"`
	Name      string `db:"name"`
	ID        int    `db:"program_id"`
	NewPensum bool   `db:"new_pensum"`
}

type groupRow struct {
	SKU        string `db:"sku"`
	Identifier string `db:"identifier"`
	Capacity   int    `db:"capacity"`
	Enrolled   int    `db:"enrolled"`
}

type sessionRow struct {
	SKU        string `db:"sku"`
	Identifier string `db:"identifier"`
	Position   int    `db:"position"`
	Day        string `db:"day"`
	Time       string `db:"time"`
	Building   string `db:"building"`
	Room       string `db:"room"`
	Professor  string `db:"professor"`
}

var snapshotTables = []string{"group_sessions", "course_groups", "course_programs", "courses"}

// snapshot flattens records into one row per course, program, group and
// session.
type snapshot []catalog.CourseRecord

func (s snapshot) Persist(tx persist.Transaction) error {
	var rows []interface{}
	for _, rec := range s {
		rows = append(rows, &courseRow{
			SKU:          rec.SKU,
			Name:         rec.Name,
			Credits:      rec.Credits,
			Level:        rec.Level,
			Requirements: strings.Join(rec.Requirements, ","),
		})
		for _, p := range rec.Programs {
			rows = append(rows, &programRow{SKU: rec.SKU, Name: p.Name, ID: p.ID, NewPensum: p.NewPensum})
		}
		for _, g := range rec.Groups {
			rows = append(rows, &groupRow{SKU: rec.SKU, Identifier: g.Identifier, Capacity: g.Capacity, Enrolled: g.Enrolled})
			for i, session := range g.Schedule {
				rows = append(rows, &sessionRow{
					SKU:        rec.SKU,
					Identifier: g.Identifier,
					Position:   i,
					Day:        session.Day,
					Time:       session.Time,
					Building:   session.Building,
					Room:       session.Room,
					Professor:  session.Professor,
				})
			}
		}
	}
	return tx.Insert(rows...)
}

type Sqlite struct {
	db    *sql.DB
	dbmap *gorp.DbMap
}

func NewSqlite(file string) (*Sqlite, error) {
	// Initialize the database connection
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Initialize the database mapping, creating the tables if it's our first run
	dbmap := &gorp.DbMap{Db: db, Dialect: gorp.SqliteDialect{}}
	dbmap.AddTableWithName(courseRow{}, "courses").SetKeys(false, "sku")
	dbmap.AddTableWithName(programRow{}, "course_programs").SetUniqueTogether("sku", "name", "program_id")
	dbmap.AddTableWithName(groupRow{}, "course_groups").SetUniqueTogether("sku", "identifier")
	dbmap.AddTableWithName(sessionRow{}, "group_sessions").SetUniqueTogether("sku", "identifier", "position")
	if err := dbmap.CreateTablesIfNotExists(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to create tables: %w", err)
	}

	return &Sqlite{db: db, dbmap: dbmap}, nil
}

// SaveCatalog replaces the stored snapshot in a single transaction.
func (s *Sqlite) SaveCatalog(ctx context.Context, records []catalog.CourseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.dbmap.Begin()
	if err != nil {
		return err
	}
	for _, table := range snapshotTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := snapshot(records).Persist(persist.InsertIgnoringDupes(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Count returns the number of rows in one of the snapshot tables.
func (s *Sqlite) Count(table string) (int64, error) {
	for _, t := range snapshotTables {
		if t == table {
			return s.dbmap.SelectInt("SELECT COUNT(*) FROM " + table)
		}
	}
	return 0, fmt.Errorf("unknown table %q", table)
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}
