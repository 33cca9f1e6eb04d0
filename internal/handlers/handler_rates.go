package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
	portssvc "github.com/mskrzypek/currency_exchange_app/internal/core/ports/services"
	"github.com/mskrzypek/currency_exchange_app/internal/dto"
	"github.com/mskrzypek/currency_exchange_app/internal/middleware"
)

const dateLayout = "2006-01-02"

// rateHandler handles HTTP requests related to exchange-rate tables.
type rateHandler struct {
	ingestionService portssvc.IngestionSvcFacade
	rateService      portssvc.RateSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(is portssvc.IngestionSvcFacade, rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{
		ingestionService: is,
		rateService:      rs,
	}
}

// registerRateRoutes registers routes related to rates and ingestion.
// ingestLimit throttles the fetch route, which fans out to the upstream API.
func registerRateRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, ingestLimit gin.HandlerFunc) {
	h := newRateHandler(services.Ingestion, services.Rates)

	rates := rg.Group("/rates")
	{
		rates.POST("/fetch/:startDate/:endDate", ingestLimit, h.fetchRates)
		rates.GET("", h.getRates)
		rates.GET("/validate", h.validateRates)
	}
	rg.GET("/currencies", h.listCurrencies)
}

// fetchRates godoc
// @Summary Ingest rates from the NBP API
// @Description Fetches publication tables for the date range in bounded windows, reconciles them into the store and returns the persisted views for the range
// @Tags rates
// @Produce  json
// @Param   startDate path string true "Range start (YYYY-MM-DD)"
// @Param   endDate   path string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} map[string]string "Invalid date format or inverted range"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Upstream fetch failed"
// @Router /rates/fetch/{startDate}/{endDate} [post]
func (h *rateHandler) fetchRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start, err := time.Parse(dateLayout, c.Param("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return
	}
	end, err := time.Parse(dateLayout, c.Param("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return
	}

	logger.Info("Received request to ingest rates",
		slog.Time("start_date", start),
		slog.Time("end_date", end),
	)

	inserted, err := h.ingestionService.IngestRange(c.Request.Context(), start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error ingesting rates", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Ingestion failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data from the NBP API"})
		return
	}

	views, err := h.rateService.GetRates(c.Request.Context(), start, end, domain.NoFilter)
	if err != nil {
		logger.Error("Failed to read back ingested rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ingested rates"})
		return
	}

	logger.Info("Ingestion succeeded",
		slog.Int64("inserted", inserted),
		slog.Int("rates_in_range", len(views)),
	)
	c.JSON(http.StatusOK, dto.IngestResponse{
		Inserted: inserted,
		Rates:    dto.ToListRateResponse(views),
	})
}

// getRates godoc
// @Summary Query persisted rates
// @Description Retrieves rate views for a date range, optionally refined by a year/quarter/month/day filter
// @Tags rates
// @Produce  json
// @Param   startDate  query string true  "Range start (YYYY-MM-DD)"
// @Param   endDate    query string true  "Range end (YYYY-MM-DD)"
// @Param   filterType query string false "One of: year, quarter, month, day"
// @Param   year       query int    false "Calendar year, with filterType=year"
// @Param   quarter    query int    false "Quarter 1-4, with filterType=quarter"
// @Param   month      query int    false "Month 1-12, with filterType=month"
// @Param   day        query string false "Exact date (YYYY-MM-DD), with filterType=day"
// @Success 200 {array} dto.RateResponse
// @Failure 400 {object} map[string]string "Malformed dates or filter"
// @Failure 500 {object} map[string]string "Failed to query rates"
// @Router /rates [get]
func (h *rateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.GetRatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind rates query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	// Dates already validated by binding tags.
	start, _ := time.Parse(dateLayout, query.StartDate)
	end, _ := time.Parse(dateLayout, query.EndDate)

	filter, err := resolveFilter(query)
	if err != nil {
		logger.Warn("Invalid rate filter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.rateService.GetRates(c.Request.Context(), start, end, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to query rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateResponse(views))
}

// listCurrencies godoc
// @Summary List distinct currency codes
// @Description Retrieves the distinct currency codes present in the Rates table
// @Tags currencies
// @Produce  json
// @Success 200 {array} string
// @Failure 500 {object} map[string]string "Failed to list currencies"
// @Router /currencies [get]
func (h *rateHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	codes, err := h.rateService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currency codes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currencies"})
		return
	}

	c.JSON(http.StatusOK, codes)
}

// validateRates godoc
// @Summary Scan persisted rates for data-quality violations
// @Description Returns rows with an empty code or non-positive mid; ingestion filters these at the door, so this is a defense-in-depth diagnostic
// @Tags rates
// @Produce  json
// @Success 200 {object} interface{} "Message when clean, invalid rows otherwise"
// @Failure 500 {object} map[string]string "Failed to run the scan"
// @Router /rates/validate [get]
func (h *rateHandler) validateRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invalid, err := h.rateService.FindInvalidRates(c.Request.Context())
	if err != nil {
		logger.Error("Data-quality scan failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate rates"})
		return
	}

	if len(invalid) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No invalid data found."})
		return
	}

	logger.Warn("Found invalid rate rows", slog.Int("count", len(invalid)))
	c.JSON(http.StatusOK, dto.ToListInvalidRateResponse(invalid))
}

// resolveFilter turns the stringly-typed query parameters into the tagged
// RateFilter variant. This is the only place the filter strings are
// interpreted; everything past the handler works with the variant.
func resolveFilter(query dto.GetRatesQuery) (domain.RateFilter, error) {
	switch query.FilterType {
	case "":
		return domain.NoFilter, nil
	case "year":
		if query.Year == nil {
			return domain.RateFilter{}, errors.New("filterType=year requires the year parameter")
		}
		return domain.RateFilter{Kind: domain.FilterYear, Year: *query.Year}, nil
	case "quarter":
		if query.Quarter == nil {
			return domain.RateFilter{}, errors.New("filterType=quarter requires the quarter parameter")
		}
		return domain.RateFilter{Kind: domain.FilterQuarter, Quarter: *query.Quarter}, nil
	case "month":
		if query.Month == nil {
			return domain.RateFilter{}, errors.New("filterType=month requires the month parameter")
		}
		return domain.RateFilter{Kind: domain.FilterMonth, Month: *query.Month}, nil
	case "day":
		if query.Day == "" {
			return domain.RateFilter{}, errors.New("filterType=day requires the day parameter")
		}
		day, err := time.Parse(dateLayout, query.Day)
		if err != nil {
			return domain.RateFilter{}, errors.New("day must use the YYYY-MM-DD format")
		}
		return domain.RateFilter{Kind: domain.FilterDay, Day: day}, nil
	default:
		return domain.RateFilter{}, errors.New("filterType must be one of: year, quarter, month, day")
	}
}

// bindingErrorMessage flattens validator errors into a caller-friendly line.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "Invalid parameter: " + verrs[0].Field()
	}
	return "Invalid request format: " + err.Error()
}
