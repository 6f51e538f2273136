package main

import (
	httpapi "usedgoods-market/internal/api/http"
	"usedgoods-market/internal/repository"
	"usedgoods-market/internal/service"
)

func buildServices(
	users repository.UserRepository,
	listings repository.ListingRepository,
	categories repository.CategoryRepository,
	offers repository.OfferRepository,
	transactions repository.TransactionRepository,
	reviews repository.ReviewRepository,
	pinger httpapi.Pinger,
	notifier service.Notifier,
) httpapi.Services {
	return httpapi.Services{
		Listings:    service.NewListingService(listings, categories),
		Offers:      service.NewOfferService(offers, listings, users, notifier),
		Settlements: service.NewSettlementService(transactions, users, notifier),
		Reviews:     service.NewReviewService(reviews, transactions),
		Users:       service.NewUserService(users),
		Store:       pinger,
	}
}
