package database

import (
	"context"
	"io"

	"github.com/openswoop/pensum/pkg/catalog"
)

// Database is a store that keeps a copy of the merged catalog.
type Database interface {
	io.Closer
	// SaveCatalog stores records keyed by SKU.
	SaveCatalog(ctx context.Context, records []catalog.CourseRecord) error
}
