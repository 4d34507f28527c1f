package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minishop/storefront/internal/api/metrics"
	"github.com/minishop/storefront/internal/core/ports"
)

type GoodsHandler struct {
	goods ports.GoodsService
}

func NewGoodsHandler(goods ports.GoodsService) *GoodsHandler {
	return &GoodsHandler{goods: goods}
}

// List serves the storefront listing. `g` filters by name substring, `s`
// by exact seller id; the filters compose with logical AND. A seller id
// that does not resolve to a real user yields 404.
//
// @Summary      List goods
// @Tags         goods
// @Produce      json
// @Param        g  query  string  false  "substring match on name"
// @Param        s  query  string  false  "exact seller id"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  Envelope
// @Router       /goods [get]
func (h *GoodsHandler) List(c echo.Context) error {
	filter := ports.GoodsFilter{
		NameContains: c.QueryParam("g"),
		SellerID:     c.QueryParam("s"),
	}

	listing, err := h.goods.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	if filter.NameContains != "" {
		metrics.GoodsSearchesTotal.Inc()
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

// Detail serves a single listing with its seller.
//
// @Summary      Goods detail
// @Tags         goods
// @Produce      json
// @Param        id  path  string  true  "goods id"
// @Success      200  {object}  detailResponse
// @Failure      404  {object}  Envelope
// @Router       /goods/{id} [get]
func (h *GoodsHandler) Detail(c echo.Context) error {
	goods, seller, err := h.goods.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detailResponse{
		Goods:  toGoodsItem(goods),
		Seller: toSellerInfo(seller),
	})
}
