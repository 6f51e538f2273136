package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/service"
)

func bikeListing() service.NewListing {
	return service.NewListing{
		Title:      "  Road bike ",
		Price:      decimal.RequireFromString("200.00"),
		CategoryID: 4,
		Condition:  domain.ListingConditionLikeNew,
		Location:   "Austin",
	}
}

func TestListingService_CreateListing(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		listings, categories := new(MockListingRepo), new(MockCategoryRepo)
		svc := service.NewListingService(listings, categories)
		categories.On("GetByID", ctx, int32(4)).Return(&domain.Category{ID: 4, Name: "Sports"}, nil)
		listings.On("Create", ctx, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.SellerID == 1 && l.Title == "Road bike" && l.Condition == domain.ListingConditionLikeNew
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Listing).ID = 9
		}).Return(nil)

		l, err := svc.CreateListing(ctx, 1, bikeListing())
		require.NoError(t, err)
		assert.Equal(t, int32(9), l.ID)
		listings.AssertExpectations(t)
	})

	t.Run("Every condition is accepted", func(t *testing.T) {
		for _, c := range []domain.ListingCondition{
			domain.ListingConditionNew, domain.ListingConditionLikeNew, domain.ListingConditionGood,
			domain.ListingConditionFair, domain.ListingConditionPoor,
		} {
			listings, categories := new(MockListingRepo), new(MockCategoryRepo)
			svc := service.NewListingService(listings, categories)
			categories.On("GetByID", ctx, int32(4)).Return(&domain.Category{ID: 4}, nil)
			listings.On("Create", ctx, mock.Anything).Return(nil)

			in := bikeListing()
			in.Condition = c
			_, err := svc.CreateListing(ctx, 1, in)
			assert.NoError(t, err, string(c))
		}
	})

	rejected := []struct {
		name   string
		mutate func(*service.NewListing)
	}{
		{"Unknown condition", func(in *service.NewListing) { in.Condition = "Mint" }},
		{"Blank title", func(in *service.NewListing) { in.Title = "   " }},
		{"Zero price", func(in *service.NewListing) { in.Price = decimal.Zero }},
		{"Sub-cent price", func(in *service.NewListing) { in.Price = decimal.RequireFromString("9.999") }},
		{"Price above column range", func(in *service.NewListing) { in.Price = decimal.RequireFromString("10000000000.00") }},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			listings, categories := new(MockListingRepo), new(MockCategoryRepo)
			svc := service.NewListingService(listings, categories)

			in := bikeListing()
			tc.mutate(&in)
			_, err := svc.CreateListing(ctx, 1, in)
			assert.ErrorIs(t, err, domain.ErrInvalidOperation)
			listings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("Unknown category", func(t *testing.T) {
		listings, categories := new(MockListingRepo), new(MockCategoryRepo)
		svc := service.NewListingService(listings, categories)
		categories.On("GetByID", ctx, int32(4)).Return(nil, fmt.Errorf("%w: category 4", domain.ErrNotFound))

		_, err := svc.CreateListing(ctx, 1, bikeListing())
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		listings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Category lookup failure is passed through", func(t *testing.T) {
		listings, categories := new(MockListingRepo), new(MockCategoryRepo)
		svc := service.NewListingService(listings, categories)
		storeErr := fmt.Errorf("%w: get category: %w", domain.ErrStoreFailure, errors.New("timeout"))
		categories.On("GetByID", ctx, int32(4)).Return(nil, storeErr)

		_, err := svc.CreateListing(ctx, 1, bikeListing())
		assert.ErrorIs(t, err, domain.ErrStoreFailure)
	})
}

func TestListingService_ListListings(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		requested, used int32
	}{
		{0, service.DefaultListingLimit},
		{-3, service.DefaultListingLimit},
		{20, 20},
		{service.MaxListingLimit + 1, service.DefaultListingLimit},
	}
	for _, tc := range cases {
		listings := new(MockListingRepo)
		svc := service.NewListingService(listings, new(MockCategoryRepo))
		listings.On("List", ctx, tc.used).Return([]domain.Listing{{ID: 1}}, nil).Once()

		got, err := svc.ListListings(ctx, tc.requested)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		listings.AssertExpectations(t)
	}
}
