package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"job-hunt-agent/internal/api/middleware"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/session"
	"job-hunt-agent/pkg/models"
)

// SearchHandler runs the job search followed by the industry trends analysis
func SearchHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.SearchRequest
		if err := bindAndValidate(c, &req); err != nil {
			logger.WithError(err).Warn("Search request validation failed")
			return errorResponse(c, requestID, err)
		}

		ctx := c.Request().Context()
		a, err := registry.Agent(ctx, sessionID(c, cfg))
		if err != nil {
			logger.WithError(err).Warn("Search rejected")
			return errorResponse(c, requestID, agentError(err))
		}

		var warnings []string
		if len(req.SkillList()) == 0 {
			warnings = append(warnings, NoSkillsWarning)
		}

		logger.Info("Search started", map[string]interface{}{
			"job_title":    req.JobTitle,
			"location":     req.Location,
			"job_category": req.JobCategory,
		})

		jobs := a.FindJobs(ctx, toJobQuery(req.JobSearchRequest))
		trends := a.GetIndustryTrends(ctx, req.JobCategory)

		response := models.SearchResponse{
			Success:        true,
			Jobs:           toReportResponse(jobs),
			IndustryTrends: toReportResponse(trends),
			Warnings:       warnings,
			ProcessingTime: time.Since(startTime),
			RequestID:      requestID,
		}

		logger.WithFields(map[string]interface{}{
			"jobs_outcome":    string(jobs.Outcome),
			"trends_outcome":  string(trends.Outcome),
			"processing_time": time.Since(startTime),
		}).Info("Search completed")

		return c.JSON(http.StatusOK, response)
	}
}

// JobSearchHandler runs only the job search
func JobSearchHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.JobSearchRequest
		if err := bindAndValidate(c, &req); err != nil {
			logger.WithError(err).Warn("Job search request validation failed")
			return errorResponse(c, requestID, err)
		}

		a, err := registry.Agent(c.Request().Context(), sessionID(c, cfg))
		if err != nil {
			return errorResponse(c, requestID, agentError(err))
		}

		report := a.FindJobs(c.Request().Context(), toJobQuery(req))
		logger.Info("Job search completed", map[string]interface{}{"outcome": string(report.Outcome)})

		return c.JSON(http.StatusOK, toReportResponse(report))
	}
}

// IndustryTrendsHandler runs only the industry trends analysis
func IndustryTrendsHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.IndustryTrendsRequest
		if err := bindAndValidate(c, &req); err != nil {
			logger.WithError(err).Warn("Industry trends request validation failed")
			return errorResponse(c, requestID, err)
		}

		a, err := registry.Agent(c.Request().Context(), sessionID(c, cfg))
		if err != nil {
			return errorResponse(c, requestID, agentError(err))
		}

		report := a.GetIndustryTrends(c.Request().Context(), req.JobCategory)
		logger.Info("Industry trends completed", map[string]interface{}{"outcome": string(report.Outcome)})

		return c.JSON(http.StatusOK, toReportResponse(report))
	}
}
