package interfaces

import (
	"context"

	"github.com/secmon-lab/assessor/pkg/domain/model"
)

// CatalogSource loads the question catalog. Implementations return a
// validated catalog or an error wrapping model.ErrInvalidCatalog.
type CatalogSource interface {
	Load(ctx context.Context) (*model.Catalog, error)
}

// ObjectReader reads a whole object from a remote bucket
type ObjectReader interface {
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}
