package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/delivery"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/middleware"
)

type handler struct {
	market market.UseCase
}

// New registers the market routes on e
func New(e *echo.Echo, mu market.UseCase) {
	h := &handler{
		market: mu,
	}

	g := e.Group("/market")
	g.POST("/listings", h.listWithFixedPrice, middleware.RequireSender())
	g.POST("/listings/delist", h.delist, middleware.RequireSender())
	g.POST("/offers", h.makeOffer, middleware.RequireSender())
	g.POST("/offers/cancel", h.cancelOffer, middleware.RequireSender())
	g.POST("/deals", h.deal, middleware.RequireSender())
	g.POST("/batch-buy", h.batchBuyNow, middleware.RequireSender())

	g.GET("/listings", h.getListings, middleware.IsValidAddress("owner"))
	g.GET("/listings/total", h.getTotalListed, middleware.IsValidAddress("address"))
	g.GET("/offers", h.getOffers, middleware.IsValidAddress("from"), middleware.IsValidAddress("to"))
	g.GET("/offers/total", h.getTotalOffer, middleware.IsValidAddress("address"))
}

func senderOf(c echo.Context) domain.Address {
	return c.Get(middleware.KeySender).(domain.Address)
}

// bind decodes and validates the body into p, writing the failure response itself.
func bind(c echo.Context, p interface{}) (bool, error) {
	if err := c.Bind(p); err != nil {
		return false, delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return false, delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return true, nil
}

func (h *handler) listWithFixedPrice(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p market.ListWithFixedPriceInput
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.ListWithFixedPrice(ctx, senderOf(c), p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) makeOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p market.MakeOfferInput
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.MakeOffer(ctx, senderOf(c), p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) deal(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p market.DealInput
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.Deal(ctx, senderOf(c), p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) delist(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p market.DelistInput
	if ok, err := bind(c, &p); !ok {
		return err
	}

	if err := h.market.Delist(ctx, senderOf(c), p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

type cancelOfferResp struct {
	Removed int `json:"removed"`
}

func (h *handler) cancelOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p market.CancelOfferInput
	if ok, err := bind(c, &p); !ok {
		return err
	}

	n, err := h.market.CancelOffer(ctx, senderOf(c), p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cancelOfferResp{Removed: n})
}

func (h *handler) batchBuyNow(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p market.BatchBuyNowInput
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.BatchBuyNow(ctx, senderOf(c), p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type listingsReq struct {
	Symbol string         `query:"symbol" validate:"required"`
	Owner  domain.Address `query:"owner"`
}

func (h *handler) getListings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p listingsReq
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.GetListedNFTInfoList(ctx, p.Symbol, p.Owner)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "symbol": p.Symbol}).Error("GetListedNFTInfoList failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type offersReq struct {
	Symbol string         `query:"symbol" validate:"required"`
	From   domain.Address `query:"from" validate:"required"`
	To     domain.Address `query:"to"`
}

func (h *handler) getOffers(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p offersReq
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.GetOfferList(ctx, p.Symbol, p.From, p.To)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "symbol": p.Symbol}).Error("GetOfferList failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type totalOfferReq struct {
	Address     domain.Address `query:"address" validate:"required"`
	PriceSymbol string         `query:"priceSymbol" validate:"required"`
}

func (h *handler) getTotalOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p totalOfferReq
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.GetTotalOfferAmount(ctx, p.Address, p.PriceSymbol)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": p.Address}).Error("GetTotalOfferAmount failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

type totalListedReq struct {
	Symbol  string         `query:"symbol" validate:"required"`
	Address domain.Address `query:"address" validate:"required"`
}

func (h *handler) getTotalListed(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	var p totalListedReq
	if ok, err := bind(c, &p); !ok {
		return err
	}

	res, err := h.market.GetTotalEffectiveListedNFTAmount(ctx, p.Symbol, p.Address)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": p.Address}).Error("GetTotalEffectiveListedNFTAmount failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
