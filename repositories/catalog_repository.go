package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrCatalogTimeout     = errors.New("catalog request timeout")
	ErrProductNotFound    = errors.New("product not found")
)

// CatalogError carries the page-level message shown for a failed catalog
// fetch while keeping the underlying cause for errors.Is.
type CatalogError struct {
	Message string
	Err     error
}

func (e *CatalogError) Error() string { return e.Message }

func (e *CatalogError) Unwrap() error { return e.Err }

func catalogError(message string, err error) *CatalogError {
	if errors.Is(err, ErrCatalogTimeout) {
		message = "Request timeout. Please try again later."
	}
	return &CatalogError{Message: message, Err: err}
}

type remoteRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type remoteProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *remoteRating   `json:"rating"`
}

// CatalogRepository talks to the public product catalog API.
type CatalogRepository struct {
	baseURL string
	client  *http.Client
	stock   func() int
}

type CatalogOption func(*CatalogRepository)

func WithHTTPClient(client *http.Client) CatalogOption {
	return func(r *CatalogRepository) { r.client = client }
}

// WithStockGenerator replaces the random demo stock source.
func WithStockGenerator(fn func() int) CatalogOption {
	return func(r *CatalogRepository) { r.stock = fn }
}

func NewCatalogRepository(baseURL string, timeout time.Duration, opts ...CatalogOption) *CatalogRepository {
	r := &CatalogRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		stock:   randomStock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func randomStock() int {
	return rand.IntN(50) + 10
}

func (r *CatalogRepository) FetchProducts(ctx context.Context, category string) ([]models.Product, error) {
	endpoint := "/products"
	if category != "" {
		endpoint = "/products/category/" + url.PathEscape(category)
	}

	var remote []remoteProduct
	if err := r.get(ctx, endpoint, &remote); err != nil {
		return nil, catalogError("Failed to fetch products. Please try again later.", err)
	}

	products := make([]models.Product, 0, len(remote))
	for _, p := range remote {
		products = append(products, r.reshape(p))
	}
	return products, nil
}

func (r *CatalogRepository) FetchProduct(ctx context.Context, id int) (*models.Product, error) {
	var remote *remoteProduct
	if err := r.get(ctx, "/products/"+strconv.Itoa(id), &remote); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, catalogError("Failed to fetch product details. Please try again later.", err)
	}

	// The API answers unknown ids with an empty 200 body.
	if remote == nil || remote.ID == 0 {
		return nil, ErrProductNotFound
	}

	product := r.reshape(*remote)
	return &product, nil
}

func (r *CatalogRepository) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.get(ctx, "/products/categories", &categories); err != nil {
		return nil, catalogError("Failed to fetch categories. Please try again later.", err)
	}
	return categories, nil
}

func (r *CatalogRepository) reshape(p remoteProduct) models.Product {
	product := models.Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Stock:       r.stock(),
	}
	if p.Rating != nil {
		product.Rating = models.Rating{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}
	return product
}

func (r *CatalogRepository) get(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ErrCatalogTimeout
		}
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP error! status: %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return ErrCatalogTimeout
		}
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCatalogUnavailable, endpoint, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
