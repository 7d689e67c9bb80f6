package services

import (
	"sync"
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func product(id int, title, price string) models.Product {
	return models.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: "electronics",
		Image:    "https://example.com/" + title + ".png",
		Stock:    20,
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
