package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"job-hunt-agent/internal/agent"
	"job-hunt-agent/internal/api/middleware"
	"job-hunt-agent/internal/api/validation"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/scraper"
	"job-hunt-agent/internal/session"
	"job-hunt-agent/pkg/models"
	"job-hunt-agent/pkg/utils"
)

// PreviewerFactory creates a page previewer authenticated with a Firecrawl API key
type PreviewerFactory func(apiKey string) (scraper.Previewer, error)

// CategoriesHandler lists the industry categories
func CategoriesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories":               models.JobCategories,
		"default_experience_years": models.DefaultExperienceYears,
	})
}

// SourcesHandler returns the pages a search would scrape, without scraping them
func SourcesHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)

		var req models.SearchRequest
		if err := c.Bind(&req); err != nil {
			return errorResponse(c, requestID, utils.NewBadRequestError("Invalid request format"))
		}

		hasJobQuery := strings.TrimSpace(req.JobTitle) != "" && strings.TrimSpace(req.Location) != ""
		hasCategory := req.JobCategory != ""

		if !hasJobQuery && !hasCategory {
			return errorResponse(c, requestID, utils.NewValidationError("job_title and location, or job_category, are required"))
		}
		if hasCategory && !validation.IsJobCategory(req.JobCategory) {
			return errorResponse(c, requestID, utils.NewValidationError("unknown job_category: "+req.JobCategory))
		}

		var response models.SourcesResponse
		if hasJobQuery {
			response.JobListingURLs = agent.JobListingURLs(req.JobTitle, req.Location)
			response.NormalizedTitle = agent.NormalizeToken(req.JobTitle)
			response.SkillsInPrompt = agent.JoinSkills(req.SkillList())
		}
		if hasCategory {
			response.IndustryURLs = agent.IndustryURLs(req.JobCategory)
		}

		return c.JSON(http.StatusOK, response)
	}
}

// PreviewHandler scrapes a single page with the session's Firecrawl key
func PreviewHandler(cfg *config.Config, registry *session.Registry, previewers PreviewerFactory) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.PreviewRequest
		if err := bindAndValidate(c, &req); err != nil {
			return errorResponse(c, requestID, err)
		}

		creds, err := registry.Credentials(c.Request().Context(), sessionID(c, cfg))
		if err != nil {
			return errorResponse(c, requestID, utils.NewInternalServerError("Failed to load session"))
		}
		if creds.FirecrawlAPIKey == "" {
			return errorResponse(c, requestID, utils.NewMissingCredentialsError("missing credentials: firecrawl_api_key"))
		}

		previewer, err := previewers(creds.FirecrawlAPIKey)
		if err != nil {
			logger.WithError(err).Error("Failed to create previewer")
			return errorResponse(c, requestID, utils.NewInternalServerError(err.Error()))
		}

		preview, err := previewer.Preview(c.Request().Context(), req.URL)
		if err != nil {
			logger.WithError(err).WithField("url", req.URL).Warn("Preview failed")
			return errorResponse(c, requestID, utils.NewExtractionError(err.Error()))
		}

		preview.RequestID = requestID
		preview.ProcessingTime = time.Since(startTime)
		return c.JSON(http.StatusOK, preview)
	}
}
