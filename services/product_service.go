package services

import (
	"context"
	"strings"

	"storefront/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CatalogSource interface {
	FetchProducts(ctx context.Context, category string) ([]models.Product, error)
	FetchProduct(ctx context.Context, id int) (*models.Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

type ProductPage struct {
	Products []models.Product
	Meta     models.MetaData
}

// ProductService fronts the remote catalog and applies search, category and
// sort on the fetched set.
type ProductService struct {
	catalog CatalogSource
	faults  FaultInjector
	logger  *zap.Logger
}

func NewProductService(catalog CatalogSource, faults FaultInjector, logger *zap.Logger) *ProductService {
	if faults == nil {
		faults = NoFaults{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{catalog: catalog, faults: faults, logger: logger}
}

func (s *ProductService) List(ctx context.Context, q models.ProductQuery) (*ProductPage, error) {
	if err := s.checkQuery(ctx, q); err != nil {
		return nil, err
	}

	products, err := s.catalog.FetchProducts(ctx, "")
	if err != nil {
		s.logger.Warn("catalog fetch failed", zap.Error(err))
		return nil, err
	}

	filtered := ApplyQuery(products, q)
	page, meta := Paginate(filtered, q.Page, q.Limit)
	return &ProductPage{Products: page, Meta: meta}, nil
}

// Listing loads products and categories concurrently for the catalog page.
func (s *ProductService) Listing(ctx context.Context, q models.ProductQuery) (*models.ProductListing, error) {
	if err := s.checkQuery(ctx, q); err != nil {
		return nil, err
	}

	var (
		products   []models.Product
		categories []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.FetchProducts(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.catalog.FetchCategories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("catalog listing failed", zap.Error(err))
		return nil, err
	}

	return &models.ProductListing{
		Products:   ApplyQuery(products, q),
		Categories: categories,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	return s.catalog.FetchProduct(ctx, id)
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.catalog.FetchCategories(ctx)
}

func (s *ProductService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if err := s.faults.Inject(ctx, OpFilterCategory, category); err != nil {
		return nil, err
	}
	return s.catalog.FetchProducts(ctx, category)
}

func (s *ProductService) checkQuery(ctx context.Context, q models.ProductQuery) error {
	if strings.TrimSpace(q.Search) != "" {
		if err := s.faults.Inject(ctx, OpSearchProducts, q.Search); err != nil {
			return err
		}
	}
	if q.Category != "" && q.Category != "all" {
		if err := s.faults.Inject(ctx, OpFilterCategory, q.Category); err != nil {
			return err
		}
	}
	if q.Sort != "" && q.Sort != SortDefault {
		if !validSorts[q.Sort] {
			return fieldError("sort", "Unknown sort option "+q.Sort)
		}
		if err := s.faults.Inject(ctx, OpSortProducts, q.Sort); err != nil {
			return err
		}
	}
	return nil
}
