package models

import "github.com/shopspring/decimal"

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog entry reshaped from the remote API. Stock is not part
// of the remote payload; it is generated when the product is fetched.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
	Stock       int             `json:"stock"`
}

type ProductQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Sort     string `form:"sort"`
	Page     int    `form:"page" binding:"min=0,max=10000"`
	Limit    int    `form:"limit" binding:"min=0,max=100"`
}

type ProductListing struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
}
