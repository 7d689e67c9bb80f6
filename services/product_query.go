package services

import (
	"slices"
	"strings"
	"sync"

	"storefront/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
	SortRating    = "rating"
)

var validSorts = map[string]bool{
	"":            true,
	SortDefault:   true,
	SortPriceLow:  true,
	SortPriceHigh: true,
	SortName:      true,
	SortRating:    true,
}

// collator is not safe for concurrent use.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English, collate.IgnoreCase)
)

// SearchProducts matches the term case-insensitively against title,
// description and category. A blank term matches everything.
func SearchProducts(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}

	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			matched = append(matched, p)
		}
	}
	return matched
}

func FilterByCategory(products []models.Product, category string) []models.Product {
	if category == "" || category == "all" {
		return products
	}

	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched
}

// SortProducts returns a sorted copy; unknown keys keep the catalog order.
func SortProducts(products []models.Product, sortBy string) []models.Product {
	sorted := slices.Clone(products)

	switch sortBy {
	case SortPriceLow:
		slices.SortStableFunc(sorted, func(a, b models.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(sorted, func(a, b models.Product) int { return b.Price.Cmp(a.Price) })
	case SortName:
		collatorMu.Lock()
		slices.SortStableFunc(sorted, func(a, b models.Product) int {
			return collator.CompareString(a.Title, b.Title)
		})
		collatorMu.Unlock()
	case SortRating:
		slices.SortStableFunc(sorted, func(a, b models.Product) int {
			switch {
			case a.Rating.Rate > b.Rating.Rate:
				return -1
			case a.Rating.Rate < b.Rating.Rate:
				return 1
			}
			return 0
		})
	}
	return sorted
}

func ApplyQuery(products []models.Product, q models.ProductQuery) []models.Product {
	result := SearchProducts(products, q.Search)
	result = FilterByCategory(result, q.Category)
	if q.Sort != "" && q.Sort != SortDefault {
		result = SortProducts(result, q.Sort)
	}
	return result
}

// Paginate returns the requested page and the metadata describing it. A
// zero limit returns everything on a single page.
func Paginate(products []models.Product, page, limit int) ([]models.Product, models.MetaData) {
	total := len(products)
	if limit < 1 {
		limit = total
		if limit == 0 {
			limit = 1
		}
	}
	if page < 1 {
		page = 1
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	start := total
	if page-1 < totalPages {
		start = (page - 1) * limit
	}
	end := total
	if limit < total-start {
		end = start + limit
	}

	return products[start:end], models.MetaData{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
