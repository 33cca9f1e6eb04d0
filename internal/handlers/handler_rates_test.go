package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
	portssvc "github.com/mskrzypek/currency_exchange_app/internal/core/ports/services"
	"github.com/mskrzypek/currency_exchange_app/internal/dto"
	"github.com/mskrzypek/currency_exchange_app/internal/handlers"
	"github.com/mskrzypek/currency_exchange_app/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock IngestionService ---
type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) IngestRange(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) GetRates(ctx context.Context, start, end time.Time, filter domain.RateFilter) ([]domain.RateView, error) {
	args := m.Called(ctx, start, end, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateView), args.Error(1)
}

func (m *MockRateService) ListCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRateService) FindInvalidRates(ctx context.Context) ([]domain.Rate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

// --- Test Suite ---
type RateHandlerTestSuite struct {
	suite.Suite
	mockIngestion *MockIngestionService
	mockRates     *MockRateService
	router        *gin.Engine
}

func (suite *RateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockIngestion = new(MockIngestionService)
	suite.mockRates = new(MockRateService)

	container := &portssvc.ServiceContainer{
		Ingestion: suite.mockIngestion,
		Rates:     suite.mockRates,
	}

	suite.router = gin.New()
	noLimit := func(c *gin.Context) { c.Next() }
	handlers.RegisterRoutes(suite.router, &config.Config{IsProduction: true}, container, noLimit)
}

func (suite *RateHandlerTestSuite) perform(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func testDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// --- Test Cases ---

func (suite *RateHandlerTestSuite) TestFetchRates_Success() {
	start := testDate("2024-01-01")
	end := testDate("2024-01-03")
	views := []domain.RateView{
		{EffectiveDate: testDate("2024-01-02"), Currency: "dolar amerykański", Code: "USD", Mid: decimal.NewFromFloat(4.50)},
		{EffectiveDate: testDate("2024-01-02"), Currency: "euro", Code: "EUR", Mid: decimal.NewFromFloat(4.80)},
	}

	suite.mockIngestion.On("IngestRange", mock.Anything, start, end).Return(int64(2), nil).Once()
	suite.mockRates.On("GetRates", mock.Anything, start, end, domain.NoFilter).Return(views, nil).Once()

	rec := suite.perform(http.MethodPost, "/api/v1/rates/fetch/2024-01-01/2024-01-03")

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.IngestResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.Inserted)
	suite.Require().Len(resp.Rates, 2)
	suite.Equal("2024-01-02", resp.Rates[0].EffectiveDate)
	suite.Equal("USD", resp.Rates[0].Code)
	suite.Equal("EUR", resp.Rates[1].Code)

	suite.mockIngestion.AssertExpectations(suite.T())
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *RateHandlerTestSuite) TestFetchRates_BadDateFormat() {
	rec := suite.perform(http.MethodPost, "/api/v1/rates/fetch/01-01-2024/2024-01-03")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockIngestion.AssertNotCalled(suite.T(), "IngestRange")
}

func (suite *RateHandlerTestSuite) TestFetchRates_UpstreamFailure() {
	start := testDate("2024-01-01")
	end := testDate("2024-01-03")

	suite.mockIngestion.On("IngestRange", mock.Anything, start, end).Return(int64(0), apperrors.ErrUpstream).Once()

	rec := suite.perform(http.MethodPost, "/api/v1/rates/fetch/2024-01-01/2024-01-03")

	suite.Equal(http.StatusInternalServerError, rec.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "GetRates")
}

func (suite *RateHandlerTestSuite) TestFetchRates_InvertedRange() {
	start := testDate("2024-02-01")
	end := testDate("2024-01-01")

	suite.mockIngestion.On("IngestRange", mock.Anything, start, end).Return(int64(0), apperrors.ErrValidation).Once()

	rec := suite.perform(http.MethodPost, "/api/v1/rates/fetch/2024-02-01/2024-01-01")

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *RateHandlerTestSuite) TestGetRates_QuarterFilter() {
	start := testDate("2024-01-01")
	end := testDate("2024-12-31")
	filter := domain.RateFilter{Kind: domain.FilterQuarter, Quarter: 2}
	views := []domain.RateView{
		{EffectiveDate: testDate("2024-04-10"), Currency: "euro", Code: "EUR", Mid: decimal.NewFromFloat(4.8)},
	}

	suite.mockRates.On("GetRates", mock.Anything, start, end, filter).Return(views, nil).Once()

	rec := suite.perform(http.MethodGet, "/api/v1/rates?startDate=2024-01-01&endDate=2024-12-31&filterType=quarter&quarter=2")

	suite.Equal(http.StatusOK, rec.Code)

	var resp []dto.RateResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("2024-04-10", resp[0].EffectiveDate)
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *RateHandlerTestSuite) TestGetRates_FilterMissingParameter() {
	rec := suite.perform(http.MethodGet, "/api/v1/rates?startDate=2024-01-01&endDate=2024-12-31&filterType=month")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "GetRates")
}

func (suite *RateHandlerTestSuite) TestGetRates_MalformedDate() {
	rec := suite.perform(http.MethodGet, "/api/v1/rates?startDate=2024-13-99&endDate=2024-12-31")

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "GetRates")
}

func (suite *RateHandlerTestSuite) TestListCurrencies() {
	suite.mockRates.On("ListCurrencies", mock.Anything).Return([]string{"EUR", "USD"}, nil).Once()

	rec := suite.perform(http.MethodGet, "/api/v1/currencies")

	suite.Equal(http.StatusOK, rec.Code)

	var codes []string
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &codes))
	suite.Equal([]string{"EUR", "USD"}, codes)
}

func (suite *RateHandlerTestSuite) TestValidateRates_Clean() {
	suite.mockRates.On("FindInvalidRates", mock.Anything).Return([]domain.Rate{}, nil).Once()

	rec := suite.perform(http.MethodGet, "/api/v1/rates/validate")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "No invalid data found.")
}

func (suite *RateHandlerTestSuite) TestValidateRates_FindsViolations() {
	invalid := []domain.Rate{{RateID: 1, TableID: 2, Currency: "broken", Code: "", Mid: decimal.NewFromFloat(5)}}
	suite.mockRates.On("FindInvalidRates", mock.Anything).Return(invalid, nil).Once()

	rec := suite.perform(http.MethodGet, "/api/v1/rates/validate")

	suite.Equal(http.StatusOK, rec.Code)

	var resp []dto.InvalidRateResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal(int64(1), resp[0].RateID)
}

// --- Run Suite ---
func TestRateHandler(t *testing.T) {
	suite.Run(t, new(RateHandlerTestSuite))
}
