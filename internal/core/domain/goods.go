package domain

import (
	"errors"
	"time"
)

var ErrGoodsNotFound = errors.New("goods not found")
var ErrSellerNotFound = errors.New("seller not found")

// DefaultGoodsImage is served when a listing carries no image of its own.
const DefaultGoodsImage = "default_goods_image.png"

// Goods is a single storefront listing owned by a seller.
type Goods struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SellerID    string    `json:"seller_id"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImageURL returns the listing image, falling back to the default.
func (g *Goods) ImageURL() string {
	if g.Image == "" {
		return DefaultGoodsImage
	}
	return g.Image
}
