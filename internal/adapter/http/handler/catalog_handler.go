package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/respond"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.catalog.Search(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	view, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "offerId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

func searchParams(r *http.Request) (usecase.SearchParams, error) {
	q := r.URL.Query()
	params := usecase.SearchParams{
		// Not trimmed: a whitespace title is a real substring to match.
		Title: q.Get("title"),
		Sort:  q.Get("sort"),
	}

	var err error
	if params.PriceMin, err = optionalInt(q.Get("priceMin"), "priceMin"); err != nil {
		return params, err
	}
	if params.PriceMax, err = optionalInt(q.Get("priceMax"), "priceMax"); err != nil {
		return params, err
	}
	page, err := optionalInt(q.Get("page"), "page")
	if err != nil {
		return params, err
	}
	if page != nil {
		params.Page = *page
	}
	return params, nil
}

func optionalInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidQuery, name)
	}
	return &v, nil
}
