package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/respond"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) PublishOffer(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		h.fail(w, r, domain.ErrUnauthorized)
		return
	}
	in, files, ok := h.readOfferForm(w, r)
	if !ok {
		return
	}

	offer, err := h.offers.Publish(r.Context(), account.ID, in, files)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	owner := account.Profile()
	respond.JSON(w, http.StatusOK, domain.NewOfferView(offer, &owner))
}

func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		h.fail(w, r, domain.ErrUnauthorized)
		return
	}
	in, files, ok := h.readOfferForm(w, r)
	if !ok {
		return
	}

	if _, err := h.offers.Update(r.Context(), chi.URLParam(r, "offerId"), account.ID, in, files); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResponse{Message: "Offer updated"})
}

func (h *Handler) RemoveOffer(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		h.fail(w, r, domain.ErrUnauthorized)
		return
	}

	if err := h.offers.Remove(r.Context(), chi.URLParam(r, "offerId"), account.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResponse{Message: "Offer deleted"})
}

func (h *Handler) readOfferForm(w http.ResponseWriter, r *http.Request) (domain.OfferInput, []domain.ImageFile, bool) {
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err)
		return domain.OfferInput{}, nil, false
	}
	files, err := formFiles(r, pictureField)
	if err != nil {
		h.fail(w, r, err)
		return domain.OfferInput{}, nil, false
	}
	return offerInputFromForm(r), files, true
}
