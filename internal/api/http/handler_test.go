package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	api "usedgoods-market/internal/api/http"
	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/security"
	"usedgoods-market/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	listings    *MockListingService
	offers      *MockOfferService
	settlements *MockSettlementService
	reviews     *MockReviewService
	users       *MockUserService
	tokens      security.TokenManager
	handler     http.Handler
}

func newFixture(pingErr error) *fixture {
	f := &fixture{
		listings:    new(MockListingService),
		offers:      new(MockOfferService),
		settlements: new(MockSettlementService),
		reviews:     new(MockReviewService),
		users:       new(MockUserService),
		tokens:      security.NewTokenManager(testSecret, time.Hour),
	}
	f.handler = api.NewRouter(api.Services{
		Listings:    f.listings,
		Offers:      f.offers,
		Settlements: f.settlements,
		Reviews:     f.reviews,
		Users:       f.users,
		Store:       stubPinger{err: pingErr},
	}, f.tokens)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, userID int32) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := f.tokens.GenerateAccessToken(userID, "")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error.Code
}

func TestOfferHandler_CreateOffer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(nil)
		f.offers.On("SubmitOffer", mock.Anything, int32(2), int32(3), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("150.50"))
		})).Return(&domain.Offer{ID: 5, ListingID: 3}, nil)

		rec := f.do(t, "POST", "/api/v1/offers", `{"listing_id":3,"offer_amount":150.50}`, 2)
		assert.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]int32
		decode(t, rec, &body)
		assert.Equal(t, int32(5), body["offerId"])
		assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		f := newFixture(nil)
		rec := f.do(t, "POST", "/api/v1/offers", `{"listing_id":3,"offer_amount":10}`, 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.offers.AssertNotCalled(t, "SubmitOffer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing listing id", func(t *testing.T) {
		f := newFixture(nil)
		rec := f.do(t, "POST", "/api/v1/offers", `{"offer_amount":10}`, 2)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeValidation, errorCode(t, rec))
	})

	t.Run("Malformed body", func(t *testing.T) {
		f := newFixture(nil)
		rec := f.do(t, "POST", "/api/v1/offers", `{"listing_id":`, 2)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Duplicate pending offer", func(t *testing.T) {
		f := newFixture(nil)
		f.offers.On("SubmitOffer", mock.Anything, int32(2), int32(3), mock.Anything).
			Return(nil, fmt.Errorf("%w: already pending", domain.ErrConflict))

		rec := f.do(t, "POST", "/api/v1/offers", `{"listing_id":3,"offer_amount":"99.00"}`, 2)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, api.CodeConflict, errorCode(t, rec))
	})

	t.Run("Listing gone", func(t *testing.T) {
		f := newFixture(nil)
		f.offers.On("SubmitOffer", mock.Anything, int32(2), int32(3), mock.Anything).Return(nil, domain.ErrNotFound)

		rec := f.do(t, "POST", "/api/v1/offers", `{"listing_id":3,"offer_amount":"99.00"}`, 2)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOfferHandler_UpdateOfferStatus(t *testing.T) {
	t.Run("Accept", func(t *testing.T) {
		f := newFixture(nil)
		txID := int32(11)
		f.offers.On("SetOfferStatus", mock.Anything, int32(1), int32(7), domain.OfferStatusAccepted).
			Return(&service.StatusResult{
				Offer:            &domain.Offer{ID: 7, Status: domain.OfferStatusAccepted},
				TransactionID:    &txID,
				RejectedOfferIDs: []int32{8},
			}, nil)

		rec := f.do(t, "PUT", "/api/v1/offers", `{"offer_id":7,"status":"Accepted"}`, 1)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Message          string  `json:"message"`
			TransactionID    int32   `json:"transaction_id"`
			RejectedOfferIDs []int32 `json:"rejected_offer_ids"`
		}
		decode(t, rec, &body)
		assert.Equal(t, "Offer accepted successfully", body.Message)
		assert.Equal(t, int32(11), body.TransactionID)
		assert.Equal(t, []int32{8}, body.RejectedOfferIDs)
	})

	t.Run("Not the seller", func(t *testing.T) {
		f := newFixture(nil)
		f.offers.On("SetOfferStatus", mock.Anything, int32(2), int32(7), domain.OfferStatusAccepted).
			Return(nil, domain.ErrForbidden)

		rec := f.do(t, "PUT", "/api/v1/offers", `{"offer_id":7,"status":"Accepted"}`, 2)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Invalid status", func(t *testing.T) {
		f := newFixture(nil)
		f.offers.On("SetOfferStatus", mock.Anything, int32(1), int32(7), domain.OfferStatus("Completed")).
			Return(nil, domain.ErrInvalidOperation)

		rec := f.do(t, "PUT", "/api/v1/offers", `{"offer_id":7,"status":"Completed"}`, 1)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeInvalidOperation, errorCode(t, rec))
	})
}

func TestOfferHandler_ListOffers(t *testing.T) {
	f := newFixture(nil)
	f.offers.On("ListOffers", mock.Anything, int32(1), false).Return([]domain.OfferView{
		{Offer: domain.Offer{ID: 7, OfferAmount: decimal.RequireFromString("150.5")}, ListingTitle: "Bike", CounterpartyName: "jane"},
	}, nil)

	rec := f.do(t, "GET", "/api/v1/offers?type=sent", "", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	var body []api.OfferResponse
	decode(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "150.50", body[0].OfferAmount)
	assert.Equal(t, "jane", body[0].CounterpartyName)

	rec = f.do(t, "GET", "/api/v1/offers?type=archived", "", 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionHandler_FindByOffer(t *testing.T) {
	t.Run("Public lookup", func(t *testing.T) {
		f := newFixture(nil)
		offerID := int32(7)
		f.settlements.On("FindTransactionsByOffer", mock.Anything, int32(7)).Return([]domain.Transaction{
			{ID: 11, OfferID: &offerID, Amount: decimal.RequireFromString("150.50"), Status: domain.TransactionStatusPending},
		}, nil)

		rec := f.do(t, "GET", "/api/v1/transactions?offer_id=7", "", 0)
		require.Equal(t, http.StatusOK, rec.Code)
		var body []api.TransactionResponse
		decode(t, rec, &body)
		require.Len(t, body, 1)
		assert.Equal(t, int32(11), body[0].TransactionID)
		assert.Equal(t, "150.50", body[0].Amount)
	})

	t.Run("Empty list", func(t *testing.T) {
		f := newFixture(nil)
		f.settlements.On("FindTransactionsByOffer", mock.Anything, int32(8)).Return([]domain.Transaction{}, nil)

		rec := f.do(t, "GET", "/api/v1/transactions?offer_id=8", "", 0)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("Missing offer id", func(t *testing.T) {
		f := newFixture(nil)
		rec := f.do(t, "GET", "/api/v1/transactions", "", 0)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Bad offer id", func(t *testing.T) {
		f := newFixture(nil)
		rec := f.do(t, "GET", "/api/v1/transactions?offer_id=abc", "", 0)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"Insufficient funds", domain.ErrInsufficientFunds, http.StatusBadRequest, api.CodeInsufficientFunds},
		{"Not found", domain.ErrNotFound, http.StatusNotFound, api.CodeNotFound},
		{"Forbidden", domain.ErrForbidden, http.StatusForbidden, api.CodeForbidden},
		{"Already completed", domain.ErrInvalidOperation, http.StatusBadRequest, api.CodeInvalidOperation},
		{"Store failure", fmt.Errorf("%w: commit settlement: %w", domain.ErrStoreFailure, errors.New("conn reset")), http.StatusInternalServerError, api.CodeStoreFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			f.settlements.On("CompleteTransaction", mock.Anything, int32(2), int32(11), domain.TransactionStatusCompleted).
				Return(nil, tt.err)

			rec := f.do(t, "PUT", "/api/v1/transactions/11", `{"status":"Completed"}`, 2)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(nil)
		f.settlements.On("CompleteTransaction", mock.Anything, int32(2), int32(11), domain.TransactionStatusCompleted).
			Return(&domain.Transaction{ID: 11, Amount: decimal.RequireFromString("150.50"), Status: domain.TransactionStatusCompleted}, nil)

		rec := f.do(t, "PUT", "/api/v1/transactions/11", `{"status":"Completed"}`, 2)
		require.Equal(t, http.StatusOK, rec.Code)
		var body api.TransactionResponse
		decode(t, rec, &body)
		assert.Equal(t, "Completed", body.Status)
	})

	t.Run("Store failure hides detail", func(t *testing.T) {
		f := newFixture(nil)
		f.settlements.On("CompleteTransaction", mock.Anything, int32(2), int32(11), domain.TransactionStatusCompleted).
			Return(nil, fmt.Errorf("%w: secret detail", domain.ErrStoreFailure))

		rec := f.do(t, "PUT", "/api/v1/transactions/11", `{"status":"Completed"}`, 2)
		assert.NotContains(t, rec.Body.String(), "secret detail")
	})

	t.Run("Bad id", func(t *testing.T) {
		f := newFixture(nil)
		rec := f.do(t, "PUT", "/api/v1/transactions/zero", `{"status":"Completed"}`, 2)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	f := newFixture(nil)
	f.settlements.On("GetTransaction", mock.Anything, int32(42), int32(11)).Return(nil, domain.ErrForbidden)

	rec := f.do(t, "GET", "/api/v1/transactions/11", "", 42)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, "GET", "/api/v1/transactions/11", "", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_GetWallet(t *testing.T) {
	f := newFixture(nil)
	f.users.On("GetWallet", mock.Anything, int32(1)).
		Return(&domain.User{ID: 1, Username: "john_doe", WalletBalance: decimal.RequireFromString("849.5")}, nil)
	f.users.On("GetWallet", mock.Anything, int32(9)).Return(nil, domain.ErrNotFound)

	rec := f.do(t, "GET", "/api/v1/users/1", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var body api.WalletResponse
	decode(t, rec, &body)
	assert.Equal(t, "849.50", body.WalletBalance)

	rec = f.do(t, "GET", "/api/v1/users/9", "", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewHandler(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		f := newFixture(nil)
		f.reviews.On("CreateReview", mock.Anything, int32(2), int32(11), int32(5), "Great").
			Return(&domain.Review{ID: 4, TransactionID: 11, ReviewerID: 2, ReviewedID: 1, Rating: 5}, nil)

		rec := f.do(t, "POST", "/api/v1/reviews", `{"transaction_id":11,"rating":5,"comment":"Great"}`, 2)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Rating out of range", func(t *testing.T) {
		f := newFixture(nil)
		rec := f.do(t, "POST", "/api/v1/reviews", `{"transaction_id":11,"rating":9}`, 2)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, api.CodeValidation, errorCode(t, rec))
	})

	t.Run("List is public", func(t *testing.T) {
		f := newFixture(nil)
		f.reviews.On("ListReviews", mock.Anything, int32(1)).Return([]domain.ReviewView{}, nil)

		rec := f.do(t, "GET", "/api/v1/reviews?userId=1", "", 0)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	rec := newFixture(nil).do(t, "GET", "/healthz", "", 0)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = newFixture(errors.New("db down")).do(t, "GET", "/healthz", "", 0)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuth_RejectsBadToken(t *testing.T) {
	f := newFixture(nil)
	req := httptest.NewRequest("GET", "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, api.CodeUnauthorized, errorCode(t, rec))
}
