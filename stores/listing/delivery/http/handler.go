package http

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/inkmarket/goapi/base/ctx"
	"github.com/inkmarket/goapi/base/delivery"
	"github.com/inkmarket/goapi/base/log"
	"github.com/inkmarket/goapi/domain"
	"github.com/inkmarket/goapi/domain/listing"
	"github.com/inkmarket/goapi/domain/metadata"
	"github.com/inkmarket/goapi/domain/tokenstatus"
)

type handler struct {
	listing    listing.UseCase
	reconciler tokenstatus.Reconciler
	metadata   metadata.Repo
}

func New(e *echo.Echo, listing listing.UseCase, reconciler tokenstatus.Reconciler, metadata metadata.Repo) {
	h := &handler{
		listing,
		reconciler,
		metadata,
	}

	g := e.Group("/listings")

	g.GET("/:contract", h.GetByCollection)

	g.POST("/:contract/invalidate", h.Invalidate)
}

// enriched is one listing with its optional joins. Both joins are advisory:
// when either source fails the listing is still served, with the field nil.
type enriched struct {
	*listing.Listing
	Status   *tokenstatus.Derived `json:"status,omitempty"`
	Metadata *metadata.Meta       `json:"metadata,omitempty"`
}

type enrichedPage struct {
	Listings []*enriched `json:"listings"`
	Total    int         `json:"total"`
}

func (h *handler) GetByCollection(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Contract     domain.Address `param:"contract" validate:"required"`
		ActiveOnly   bool           `query:"activeOnly"`
		WithStatus   bool           `query:"withStatus"`
		WithMetadata bool           `query:"withMetadata"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !common.IsHexAddress(string(p.Contract)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	var (
		page *listing.Page
		err  error
	)
	if p.ActiveOnly {
		page, err = h.listing.GetActiveByCollection(ctx, p.Contract)
	} else {
		page, err = h.listing.GetByCollection(ctx, p.Contract)
	}
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	if !p.WithStatus && !p.WithMetadata {
		return delivery.MakeJsonResp(c, http.StatusOK, page)
	}

	var snapshot tokenstatus.Snapshot
	if p.WithStatus {
		snapshot, err = h.reconciler.Reconcile(ctx, p.Contract, page.Listings)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":      err,
				"contract": p.Contract,
			}).Warn("failed to reconciler.Reconcile")
		}
	}

	var doc *metadata.Document
	if p.WithMetadata {
		doc, err = h.metadata.Get(ctx, p.Contract)
		if err != nil {
			ctx.WithFields(log.Fields{
				"err":      err,
				"contract": p.Contract,
			}).Warn("failed to metadata.Get")
		}
	}

	out := &enrichedPage{
		Listings: make([]*enriched, 0, len(page.Listings)),
		Total:    page.Total,
	}
	for _, l := range page.Listings {
		en := &enriched{Listing: l}
		if snapshot != nil {
			en.Status = snapshot[l.ListingId]
		}
		if entry := doc.ById(l.TokenId); entry != nil {
			en.Metadata = &entry.Metadata
		}
		out.Listings = append(out.Listings, en)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, out)
}

func (h *handler) Invalidate(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Contract domain.Address `param:"contract" validate:"required"`
	}

	p := payload{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.listing.Invalidate(ctx, p.Contract); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
