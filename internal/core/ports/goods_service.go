package ports

import (
	"context"

	"github.com/minishop/storefront/internal/core/domain"
)

// GoodsListing is the result of a filtered listing query. Seller is set only
// when the query was filtered by seller id.
type GoodsListing struct {
	Goods      []*domain.Goods
	Seller     *domain.User
	SearchText string
	NoResults  bool
}

// GoodsService serves the storefront listing and detail views.
type GoodsService interface {
	List(ctx context.Context, filter GoodsFilter) (*GoodsListing, error)
	Get(ctx context.Context, id string) (*domain.Goods, *domain.User, error)
}
