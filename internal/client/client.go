// Package client talks to the marketplace HTTP API on behalf of one user.
// It satisfies the finalize.Lookup and finalize.Completer interfaces.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the API's stable error codes back onto the domain sentinels.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "NOT_FOUND":
		return domain.ErrNotFound
	case "FORBIDDEN":
		return domain.ErrForbidden
	case "CONFLICT":
		return domain.ErrConflict
	case "INSUFFICIENT_FUNDS":
		return domain.ErrInsufficientFunds
	case "INVALID_OPERATION", "VALIDATION_ERROR":
		return domain.ErrInvalidOperation
	case "STORE_FAILURE":
		return domain.ErrStoreFailure
	}
	return nil
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AcceptResult is the body of a successful offer status update.
type AcceptResult struct {
	Message          string  `json:"message"`
	TransactionID    *int32  `json:"transaction_id"`
	RejectedOfferIDs []int32 `json:"rejected_offer_ids"`
}

type transactionBody struct {
	TransactionID int32  `json:"transaction_id"`
	ListingID     int32  `json:"listing_id"`
	SellerID      int32  `json:"seller_id"`
	BuyerID       int32  `json:"buyer_id"`
	OfferID       *int32 `json:"offer_id"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

func (b transactionBody) toDomain() (domain.Transaction, error) {
	amount, err := decimal.NewFromString(b.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("decode amount %q: %w", b.Amount, err)
	}
	return domain.Transaction{
		ID:        b.TransactionID,
		ListingID: b.ListingID,
		SellerID:  b.SellerID,
		BuyerID:   b.BuyerID,
		OfferID:   b.OfferID,
		Amount:    amount,
		Status:    domain.TransactionStatus(b.Status),
	}, nil
}

func (c *Client) SubmitOffer(ctx context.Context, listingID int32, amount decimal.Decimal) (int32, error) {
	var res struct {
		OfferID int32 `json:"offerId"`
	}
	body := map[string]any{"listing_id": listingID, "offer_amount": domain.FormatAmount(amount)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/offers", body, &res); err != nil {
		return 0, err
	}
	return res.OfferID, nil
}

func (c *Client) SetOfferStatus(ctx context.Context, offerID int32, status domain.OfferStatus) (*AcceptResult, error) {
	var res AcceptResult
	body := map[string]any{"offer_id": offerID, "status": status}
	if err := c.do(ctx, http.MethodPut, "/api/v1/offers", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) FindTransactionsByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error) {
	var res []transactionBody
	path := "/api/v1/transactions?" + url.Values{"offer_id": {strconv.Itoa(int(offerID))}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	txs := make([]domain.Transaction, 0, len(res))
	for _, b := range res {
		tx, err := b.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// CompleteTransaction ignores actingUserID: the server takes the caller from the token.
func (c *Client) CompleteTransaction(ctx context.Context, actingUserID, transactionID int32, target domain.TransactionStatus) (*domain.Transaction, error) {
	var res transactionBody
	path := fmt.Sprintf("/api/v1/transactions/%d", transactionID)
	if err := c.do(ctx, http.MethodPut, path, map[string]any{"status": target}, &res); err != nil {
		return nil, err
	}
	tx, err := res.toDomain()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger.ExternalServiceCall("market-api", method+" "+path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ExternalServiceResult("market-api", method+" "+path, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&eb) == nil {
			apiErr.Code = eb.Error.Code
			apiErr.Message = eb.Error.Message
		}
		logger.ExternalServiceResult("market-api", method+" "+path, apiErr)
		return apiErr
	}

	logger.ExternalServiceResult("market-api", method+" "+path, nil, "status", resp.StatusCode)
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
