package http

import (
	"github.com/gorilla/mux"

	"usedgoods-market/internal/security"
	"usedgoods-market/internal/service"
)

// Services are the collaborators the HTTP surface is built from.
type Services struct {
	Listings    service.ListingService
	Offers      service.OfferService
	Settlements service.SettlementService
	Reviews     service.ReviewService
	Users       service.UserService
	Store       Pinger
}

func NewRouter(svcs Services, tokenManager security.TokenManager) *mux.Router {
	listings := NewListingHandler(svcs.Listings)
	offers := NewOfferHandler(svcs.Offers)
	transactions := NewTransactionHandler(svcs.Settlements)
	reviews := NewReviewHandler(svcs.Reviews)
	users := NewUserHandler(svcs.Users)
	health := NewHealthHandler(svcs.Store)
	auth := &authMiddleware{tokenManager: tokenManager}

	router := mux.NewRouter()
	router.Use(recoverer, requestLogger, auth.Middleware)

	router.HandleFunc("/healthz", health.Health).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/categories", listings.ListCategories).Methods("GET")
	api.HandleFunc("/listings", listings.CreateListing).Methods("POST")
	api.HandleFunc("/listings", listings.ListListings).Methods("GET")
	api.HandleFunc("/listings/{id}", listings.GetListing).Methods("GET")

	api.HandleFunc("/offers", offers.CreateOffer).Methods("POST")
	api.HandleFunc("/offers", offers.UpdateOfferStatus).Methods("PUT")
	api.HandleFunc("/offers", offers.ListOffers).Methods("GET")

	api.HandleFunc("/transactions", transactions.FindByOffer).Methods("GET")
	api.HandleFunc("/transactions/{id}", transactions.GetTransaction).Methods("GET")
	api.HandleFunc("/transactions/{id}", transactions.UpdateTransaction).Methods("PUT")

	api.HandleFunc("/users/{id}", users.GetWallet).Methods("GET")

	api.HandleFunc("/reviews", reviews.CreateReview).Methods("POST")
	api.HandleFunc("/reviews", reviews.ListReviews).Methods("GET")

	return router
}
