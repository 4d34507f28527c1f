package handler

import (
	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

type goodsItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SellerID    string  `json:"seller_id"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description,omitempty"`
}

type sellerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type listingResponse struct {
	Goods      []goodsItem `json:"goods"`
	Seller     *sellerInfo `json:"seller,omitempty"`
	SearchText string      `json:"search_text,omitempty"`
	NoResults  bool        `json:"no_results"`
}

type detailResponse struct {
	Goods  goodsItem   `json:"goods"`
	Seller *sellerInfo `json:"seller,omitempty"`
}

func toGoodsItem(g *domain.Goods) goodsItem {
	return goodsItem{
		ID:          g.ID,
		Name:        g.Name,
		SellerID:    g.SellerID,
		Price:       g.Price,
		Image:       g.ImageURL(),
		Description: g.Description,
	}
}

func toSellerInfo(u *domain.User) *sellerInfo {
	if u == nil {
		return nil
	}
	return &sellerInfo{ID: u.ID, Username: u.Username}
}

func toListingResponse(l *ports.GoodsListing) listingResponse {
	items := make([]goodsItem, 0, len(l.Goods))
	for _, g := range l.Goods {
		items = append(items, toGoodsItem(g))
	}
	return listingResponse{
		Goods:      items,
		Seller:     toSellerInfo(l.Seller),
		SearchText: l.SearchText,
		NoResults:  l.NoResults,
	}
}
