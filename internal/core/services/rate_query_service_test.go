package services_test

import (
	"context"
	"testing"

	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
	"github.com/mskrzypek/currency_exchange_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockRateRepository
	service      *services.RateService
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockRateRepository)
	suite.service = services.NewRateService(suite.mockRateRepo)
}

func (suite *RateServiceTestSuite) TestGetRates_PassesFilterThrough() {
	ctx := context.Background()
	start := date("2024-01-01")
	end := date("2024-12-31")
	filter := domain.RateFilter{Kind: domain.FilterQuarter, Quarter: 2}
	expected := []domain.RateView{
		{EffectiveDate: date("2024-04-10"), Currency: "euro", Code: "EUR", Mid: decimal.NewFromFloat(4.8)},
	}

	suite.mockRateRepo.On("QueryRates", ctx, start, end, filter).Return(expected, nil).Once()

	views, err := suite.service.GetRates(ctx, start, end, filter)

	suite.Require().NoError(err)
	suite.Equal(expected, views)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestGetRates_InvertedRange() {
	ctx := context.Background()

	views, err := suite.service.GetRates(ctx, date("2024-02-01"), date("2024-01-01"), domain.NoFilter)

	suite.Require().Error(err)
	suite.Nil(views)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "QueryRates")
}

func (suite *RateServiceTestSuite) TestListCurrencies() {
	ctx := context.Background()
	suite.mockRateRepo.On("ListCurrencyCodes", ctx).Return([]string{"EUR", "USD"}, nil).Once()

	codes, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.Equal([]string{"EUR", "USD"}, codes)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestFindInvalidRates() {
	ctx := context.Background()
	invalid := []domain.Rate{{RateID: 1, TableID: 2, Currency: "broken", Code: "", Mid: decimal.NewFromFloat(5)}}
	suite.mockRateRepo.On("FindInvalidRates", ctx).Return(invalid, nil).Once()

	rates, err := suite.service.FindInvalidRates(ctx)

	suite.Require().NoError(err)
	suite.Equal(invalid, rates)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func TestRateService(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
