package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/service"
)

type OfferHandler struct {
	offerSvc service.OfferService
}

func NewOfferHandler(offerSvc service.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

type createOfferRequest struct {
	ListingID   int32           `json:"listing_id" validate:"required,gt=0"`
	OfferAmount decimal.Decimal `json:"offer_amount"`
}

type createOfferResponse struct {
	OfferID int32 `json:"offerId"`
}

type updateOfferRequest struct {
	OfferID int32  `json:"offer_id" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required"`
}

type updateOfferResponse struct {
	Message          string  `json:"message"`
	TransactionID    *int32  `json:"transaction_id,omitempty"`
	RejectedOfferIDs []int32 `json:"rejected_offer_ids,omitempty"`
}

func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req createOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	offer, err := h.offerSvc.SubmitOffer(r.Context(), userID, req.ListingID, req.OfferAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "Offer submitted", "offerID", offer.ID, "listingID", offer.ListingID, "buyerID", userID)
	writeJSON(w, http.StatusCreated, createOfferResponse{OfferID: offer.ID})
}

func (h *OfferHandler) UpdateOfferStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req updateOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.offerSvc.SetOfferStatus(r.Context(), userID, req.OfferID, domain.OfferStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "Offer status updated", "offerID", req.OfferID, "status", req.Status)
	writeJSON(w, http.StatusOK, updateOfferResponse{
		Message:          fmt.Sprintf("Offer %s successfully", statusVerb(res.Offer.Status)),
		TransactionID:    res.TransactionID,
		RejectedOfferIDs: res.RejectedOfferIDs,
	})
}

func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	received := true
	switch kind := r.URL.Query().Get("type"); kind {
	case "", "received":
	case "sent":
		received = false
	default:
		writeError(w, r, fmt.Errorf("%w: type must be received or sent", domain.ErrInvalidOperation))
		return
	}

	views, err := h.offerSvc.ListOffers(r.Context(), userID, received)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapOfferViewsToResponse(views))
}

func statusVerb(s domain.OfferStatus) string {
	switch s {
	case domain.OfferStatusAccepted:
		return "accepted"
	case domain.OfferStatusRejected:
		return "rejected"
	default:
		return "updated"
	}
}
