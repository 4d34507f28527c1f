package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

// GoodsService serves the listing and detail views of the storefront.
type GoodsService struct {
	goods  ports.GoodsRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewGoodsService(goods ports.GoodsRepository, users ports.UserRepository, logger zerolog.Logger) *GoodsService {
	return &GoodsService{goods: goods, users: users, logger: logger}
}

// List returns goods matching filter. The substring and seller filters
// compose with logical AND. A seller id that does not resolve to a real
// user yields domain.ErrSellerNotFound.
func (s *GoodsService) List(ctx context.Context, filter ports.GoodsFilter) (*ports.GoodsListing, error) {
	listing := &ports.GoodsListing{SearchText: filter.NameContains}

	if filter.SellerID != "" {
		seller, err := s.users.FindByID(ctx, filter.SellerID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrSellerNotFound
			}
			return nil, err
		}
		listing.Seller = seller
	}

	goods, err := s.goods.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("goods listing query failed")
		return nil, err
	}

	listing.Goods = goods
	listing.NoResults = len(goods) == 0
	return listing, nil
}

// Get returns a single listing and its seller.
func (s *GoodsService) Get(ctx context.Context, id string) (*domain.Goods, *domain.User, error) {
	goods, err := s.goods.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	seller, err := s.users.FindByID(ctx, goods.SellerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// listing with a vanished seller still renders, without seller info
			return goods, nil, nil
		}
		return nil, nil, err
	}

	return goods, seller, nil
}
