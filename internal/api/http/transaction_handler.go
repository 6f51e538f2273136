package http

import (
	"net/http"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/service"
)

type TransactionHandler struct {
	settlementSvc service.SettlementService
}

func NewTransactionHandler(settlementSvc service.SettlementService) *TransactionHandler {
	return &TransactionHandler{settlementSvc: settlementSvc}
}

type updateTransactionRequest struct {
	Status string `json:"status" validate:"required"`
}

// FindByOffer answers GET /transactions?offer_id=. The list holds zero or one entries.
func (h *TransactionHandler) FindByOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := parseID(r.URL.Query().Get("offer_id"), "offer_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := h.settlementSvc.FindTransactionsByOffer(r.Context(), offerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapTransactionsToResponse(txs))
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.settlementSvc.GetTransaction(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapTransactionToResponse(tx))
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.settlementSvc.CompleteTransaction(r.Context(), userID, id, domain.TransactionStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.InfoContext(r.Context(), "Transaction updated", "transactionID", tx.ID, "status", tx.Status)
	writeJSON(w, http.StatusOK, MapTransactionToResponse(tx))
}
