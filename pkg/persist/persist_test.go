package persist

import (
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
)

type fakeTx struct {
	inserted []interface{}
	fail     map[interface{}]error
}

func (f *fakeTx) Insert(list ...interface{}) error {
	for _, row := range list {
		if err, ok := f.fail[row]; ok {
			return err
		}
		f.inserted = append(f.inserted, row)
	}
	return nil
}

func TestInsertIgnoringDupes(t *testing.T) {
	tx := &fakeTx{fail: map[interface{}]error{
		"dupe": sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
	}}
	if err := InsertIgnoringDupes(tx).Insert("a", "dupe", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.inserted) != 2 {
		t.Errorf("inserted %v, want a and b", tx.inserted)
	}
}

func TestInsertIgnoringDupesReturnsOtherErrors(t *testing.T) {
	boom := errors.New("disk full")
	tx := &fakeTx{fail: map[interface{}]error{"b": boom}}
	err := InsertIgnoringDupes(tx).Insert("a", "b", "c")
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
	if len(tx.inserted) != 1 {
		t.Errorf("insertion should stop at the first failure, inserted %v", tx.inserted)
	}
}
