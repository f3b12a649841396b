package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"job-hunt-agent/internal/api/middleware"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/session"
	"job-hunt-agent/pkg/models"
	"job-hunt-agent/pkg/utils"
)

// SaveSessionHandler stores the credentials posted by the caller
func SaveSessionHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.CredentialsRequest
		if err := bindAndValidate(c, &req); err != nil {
			logger.WithError(err).Warn("Invalid credentials request")
			return errorResponse(c, requestID, err)
		}

		id := ensureSessionID(c, cfg)
		creds := session.Credentials{
			ModelURL:         req.ModelURL,
			GenerationAPIKey: req.GenerationAPIKey,
			FirecrawlAPIKey:  req.FirecrawlAPIKey,
		}

		if err := registry.Save(c.Request().Context(), id, creds); err != nil {
			logger.WithError(err).Error("Failed to save session")
			return errorResponse(c, requestID, utils.NewInternalServerError("Failed to save session"))
		}

		return c.JSON(http.StatusOK, sessionResponse(cfg, registry, id, creds.WithDefaults(session.DefaultCredentials(cfg))))
	}
}

// GetSessionHandler reports which credentials the session can use, never their values
func GetSessionHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)

		id := sessionID(c, cfg)
		creds, err := registry.Credentials(c.Request().Context(), id)
		if err != nil {
			logging.LogWithRequestID(requestID).WithError(err).Error("Failed to load session")
			return errorResponse(c, requestID, utils.NewInternalServerError("Failed to load session"))
		}

		return c.JSON(http.StatusOK, sessionResponse(cfg, registry, id, creds))
	}
}

// DeleteSessionHandler forgets the caller's session
func DeleteSessionHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)

		if id := sessionID(c, cfg); id != "" {
			if err := registry.Forget(c.Request().Context(), id); err != nil {
				logging.LogWithRequestID(requestID).WithError(err).Error("Failed to delete session")
				return errorResponse(c, requestID, utils.NewInternalServerError("Failed to delete session"))
			}
		}

		clearSessionCookie(c, cfg)
		return c.NoContent(http.StatusNoContent)
	}
}

func sessionResponse(cfg *config.Config, registry *session.Registry, id string, creds session.Credentials) models.SessionResponse {
	return models.SessionResponse{
		SessionID:           id,
		Provider:            cfg.Generation.Provider,
		HasModelURL:         creds.ModelURL != "",
		HasGenerationAPIKey: creds.GenerationAPIKey != "",
		HasFirecrawlAPIKey:  creds.FirecrawlAPIKey != "",
		Ready:               creds.Complete(registry.RequiresModelURL()),
	}
}
