package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/service"
)

type ListingHandler struct {
	listingSvc service.ListingService
}

func NewListingHandler(listingSvc service.ListingService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc}
}

type createListingRequest struct {
	Title       string          `json:"title" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int32           `json:"category_id" validate:"required,gt=0"`
	Condition   string          `json:"condition" validate:"required"`
	Location    string          `json:"location" validate:"max=100"`
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req createListingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.listingSvc.CreateListing(r.Context(), userID, service.NewListing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Condition:   domain.ListingCondition(req.Condition),
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "Listing created", "listingID", listing.ID, "sellerID", userID)
	writeJSON(w, http.StatusCreated, MapListingToResponse(listing))
}

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.listingSvc.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapListingToResponse(listing))
}

// ListListings returns the newest available listings. It takes no filters.
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid limit %q", domain.ErrInvalidOperation, raw))
			return
		}
		limit = int32(n)
	}

	listings, err := h.listingSvc.ListListings(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapListingsToResponse(listings))
}

func (h *ListingHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listingSvc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapCategoriesToResponse(categories))
}
