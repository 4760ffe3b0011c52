package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is an insertion-ordered dictionary of course records keyed by SKU.
type Catalog struct {
	skus    []string
	records map[string]*CourseRecord
}

func New() *Catalog {
	return &Catalog{records: make(map[string]*CourseRecord)}
}

// FromRecords builds a catalog from an already merged collection, failing if
// two records share a SKU.
func FromRecords(records []CourseRecord) (*Catalog, error) {
	if err := CheckUnique(records); err != nil {
		return nil, err
	}
	c := New()
	for _, r := range records {
		c.Put(r.clone())
	}
	return c, nil
}

// Get returns the stored record so callers can mutate it in place.
func (c *Catalog) Get(sku string) (*CourseRecord, bool) {
	r, ok := c.records[NormalizeSKU(sku)]
	return r, ok
}

// Put inserts rec unless its SKU is already present, and returns the stored
// record either way. An existing record is never replaced.
func (c *Catalog) Put(rec CourseRecord) *CourseRecord {
	rec.SKU = NormalizeSKU(rec.SKU)
	if existing, ok := c.records[rec.SKU]; ok {
		return existing
	}
	stored := rec
	c.records[rec.SKU] = &stored
	c.skus = append(c.skus, rec.SKU)
	return &stored
}

func (c *Catalog) Len() int {
	return len(c.skus)
}

// SKUs returns the codes in insertion order.
func (c *Catalog) SKUs() []string {
	return append([]string{}, c.skus...)
}

// Records returns finalized copies of every record sorted by SKU.
func (c *Catalog) Records() Records {
	out := make(Records, 0, len(c.skus))
	for _, sku := range c.skus {
		out = append(out, c.records[sku].finalize())
	}
	sort.Stable(out)
	return out
}

// Records is a collection of course records ordered by SKU, compared as plain
// strings so "100" sorts before "20".
type Records []CourseRecord

func (r Records) Len() int {
	return len(r)
}

func (r Records) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

func (r Records) Less(i, j int) bool {
	return r[i].SKU < r[j].SKU
}

// Batches splits the collection into consecutive chunks of at most size
// records. A size below one yields a single batch.
func (r Records) Batches(size int) []Records {
	if len(r) == 0 {
		return nil
	}
	if size < 1 {
		size = len(r)
	}
	batches := make([]Records, 0, (len(r)+size-1)/size)
	for start := 0; start < len(r); start += size {
		end := start + size
		if end > len(r) {
			end = len(r)
		}
		batches = append(batches, r[start:end])
	}
	return batches
}

// MapFunc transforms a collection of records.
type MapFunc func(Records) Records

// Apply runs each transformation in order on a copy of the collection.
func (r Records) Apply(fns ...MapFunc) Records {
	out := make(Records, 0, len(r))
	for _, rec := range r {
		out = append(out, rec.clone())
	}
	for _, fn := range fns {
		out = fn(out)
	}
	return out
}

// SharedOnly keeps courses offered by more than one program.
func SharedOnly() MapFunc {
	return func(records Records) Records {
		var shared Records
		for _, rec := range records {
			if len(rec.Programs) > 1 {
				shared = append(shared, rec)
			}
		}
		return shared
	}
}

// ScheduledOnly keeps courses with at least one group.
func ScheduledOnly() MapFunc {
	return func(records Records) Records {
		var scheduled Records
		for _, rec := range records {
			if len(rec.Groups) > 0 {
				scheduled = append(scheduled, rec)
			}
		}
		return scheduled
	}
}

// DuplicateSKUError reports course codes that appear more than once in what
// should be a merged collection.
type DuplicateSKUError struct {
	SKUs []string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("duplicate sku in merged catalog: %s", strings.Join(e.SKUs, ", "))
}

// CheckUnique returns a *DuplicateSKUError when any SKU repeats.
func CheckUnique(records []CourseRecord) error {
	seen := make(map[string]int, len(records))
	var dupes []string
	for _, r := range records {
		sku := NormalizeSKU(r.SKU)
		seen[sku]++
		if seen[sku] == 2 {
			dupes = append(dupes, sku)
		}
	}
	if len(dupes) == 0 {
		return nil
	}
	sort.Strings(dupes)
	return &DuplicateSKUError{SKUs: dupes}
}
