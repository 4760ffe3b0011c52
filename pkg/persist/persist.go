package persist

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

type Persistable interface {
	Persist(tx Transaction) error
}

type Transaction interface {
	Insert(list ...interface{}) error
}

type InsertFunc func(...interface{}) error

func (f InsertFunc) Insert(list ...interface{}) error {
	return f(list...)
}

// InsertIgnoringDupes inserts rows one at a time, skipping any row that
// violates a unique constraint.
func InsertIgnoringDupes(t Transaction) Transaction {
	return InsertFunc(func(list ...interface{}) error {
		for _, row := range list {
			err := t.Insert(row)
			var sqliteError sqlite3.Error
			if errors.As(err, &sqliteError) && sqliteError.ExtendedCode == sqlite3.ErrConstraintUnique {
				continue // silently ignore
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
