package business

import (
	"context"

	"github.com/antinvestor/service-catalogue/service/storage/models"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/antinvestor/service-catalogue/service/types"
	"gorm.io/gorm"

	"github.com/pkg/errors"
)

// Resolver maps download targets, a direct catalogue id or a product
// identifier, to active registry entries. It has no side effects.
type Resolver struct {
	catalogueRepo repository.CatalogueRepository
	products      *ProductMap
}

func NewResolver(catalogueRepo repository.CatalogueRepository, products *ProductMap) *Resolver {
	return &Resolver{
		catalogueRepo: catalogueRepo,
		products:      products,
	}
}

// ResolveCatalogue resolves a direct catalogue id. Missing and inactive
// entries are indistinguishable to the caller.
func (r *Resolver) ResolveCatalogue(ctx context.Context, id types.CatalogueID) (*models.CatalogueEntry, error) {
	entry, err := r.catalogueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogueNotFound
		}
		return nil, err
	}

	if !entry.Active {
		return nil, ErrCatalogueNotFound
	}

	return entry, nil
}

// ResolveProduct resolves a product identifier (canonical key or legacy
// numeric alias) to its active catalogue entries, preserving the order
// of the static file list. A listed file with no active entry is simply
// skipped; a product whose whole list resolves empty is an error.
func (r *Resolver) ResolveProduct(ctx context.Context, productID string) (string, []*models.CatalogueEntry, error) {
	canonical, ok := r.products.Canonical(productID)
	if !ok {
		return "", nil, ErrProductNotFound
	}

	fileNames := r.products.FileNames(canonical)

	entries, err := r.catalogueRepo.GetActiveByOriginalNames(ctx, fileNames)
	if err != nil {
		return canonical, nil, err
	}

	byName := make(map[string]*models.CatalogueEntry, len(entries))
	for _, entry := range entries {
		byName[entry.OriginalName] = entry
	}

	ordered := make([]*models.CatalogueEntry, 0, len(fileNames))
	for _, name := range fileNames {
		if entry, found := byName[name]; found {
			ordered = append(ordered, entry)
		}
	}

	if len(ordered) == 0 {
		return canonical, nil, ErrNoCataloguesFound
	}

	return canonical, ordered, nil
}
