package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCatalog struct {
	products   int
	product    int
	categories int
	err        error
}

func (c *countingCatalog) FetchProducts(_ context.Context, category string) ([]models.Product, error) {
	c.products++
	if c.err != nil {
		return nil, c.err
	}
	return []models.Product{{ID: 1, Title: "Backpack", Category: category, Price: decimal.RequireFromString("109.95"), Stock: 10 + c.products}}, nil
}

func (c *countingCatalog) FetchProduct(_ context.Context, id int) (*models.Product, error) {
	c.product++
	if c.err != nil {
		return nil, c.err
	}
	return &models.Product{ID: id, Title: "Backpack", Stock: 10 + c.product}, nil
}

func (c *countingCatalog) FetchCategories(context.Context) ([]string, error) {
	c.categories++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"electronics"}, nil
}

func TestCachedCatalog(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	cache := NewMemoryCatalogCache()
	cache.now = func() time.Time { return now }

	next := &countingCatalog{}
	catalog := NewCachedCatalog(next, cache, 5*time.Minute, nil)

	first, err := catalog.FetchProducts(ctx, "")
	require.NoError(t, err)
	second, err := catalog.FetchProducts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, next.products)
	assert.Equal(t, first[0].Stock, second[0].Stock, "stock stays stable while cached")
	assert.True(t, first[0].Price.Equal(second[0].Price))

	_, err = catalog.FetchProducts(ctx, "jewelery")
	require.NoError(t, err)
	assert.Equal(t, 2, next.products)

	p1, err := catalog.FetchProduct(ctx, 3)
	require.NoError(t, err)
	p2, err := catalog.FetchProduct(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, next.product)
	assert.Equal(t, p1.Stock, p2.Stock)

	_, err = catalog.FetchCategories(ctx)
	require.NoError(t, err)
	_, err = catalog.FetchCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next.categories)

	now = now.Add(5 * time.Minute)
	_, err = catalog.FetchProducts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, next.products)
}

func TestCachedCatalog_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingCatalog{err: errors.New("boom")}
	catalog := NewCachedCatalog(next, NewMemoryCatalogCache(), time.Minute, nil)

	_, err := catalog.FetchProducts(ctx, "")
	require.Error(t, err)

	next.err = nil
	products, err := catalog.FetchProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 2, next.products)
}

func TestMemoryCatalogCache_Miss(t *testing.T) {
	cache := NewMemoryCatalogCache()
	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
