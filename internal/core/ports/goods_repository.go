package ports

import (
	"context"

	"github.com/minishop/storefront/internal/core/domain"
)

// GoodsFilter carries the query parameters for listing goods. Both filters
// are optional and compose with logical AND.
type GoodsFilter struct {
	NameContains string // substring match on the listing name
	SellerID     string // exact match on the owning seller
}

// GoodsRepository defines persistence operations for goods listings.
type GoodsRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Goods, error)
	List(ctx context.Context, filter GoodsFilter) ([]*domain.Goods, error)
}
