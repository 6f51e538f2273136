package http

import (
	"net/http"

	"usedgoods-market/internal/service"
)

type ReviewHandler struct {
	reviewSvc service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

type createReviewRequest struct {
	TransactionID int32  `json:"transaction_id" validate:"required,gt=0"`
	Rating        int32  `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := h.reviewSvc.CreateReview(r.Context(), userID, req.TransactionID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapReviewToResponse(review))
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r.URL.Query().Get("userId"), "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	reviews, err := h.reviewSvc.ListReviews(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapReviewViewsToResponse(reviews))
}
