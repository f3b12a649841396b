package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"job-hunt-agent/internal/agent"
	"job-hunt-agent/internal/api/middleware"
	"job-hunt-agent/internal/api/validation"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/session"
	"job-hunt-agent/pkg/models"
	"job-hunt-agent/pkg/utils"
)

// NoSkillsWarning is shown when a search is started without skills
const NoSkillsWarning = "No skills provided. Adding skills will improve job matching."

var validate = validation.New()

// errorResponse writes err as the standard JSON error body
func errorResponse(c echo.Context, requestID string, err error) error {
	ce := utils.AsCustomError(err)

	message := ce.Message
	if ce.Detail != "" {
		message = ce.Message + ": " + ce.Detail
	}

	return c.JSON(ce.Code, models.ErrorResponse{
		Error:     ce.Kind,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// bindAndValidate binds the request into req and runs the struct validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return utils.NewBadRequestError("Invalid request format")
	}
	if err := validate.Struct(req); err != nil {
		return utils.NewValidationError(err.Error())
	}
	return nil
}

// agentError maps registry failures onto API errors
func agentError(err error) error {
	var missing *session.MissingCredentialsError
	if errors.As(err, &missing) {
		return utils.NewMissingCredentialsError(missing.Error())
	}
	return utils.NewInternalServerError(err.Error())
}

// sessionID returns the caller's session ID from the header or the cookie
func sessionID(c echo.Context, cfg *config.Config) string {
	if id := c.Request().Header.Get(middleware.HeaderSessionID); id != "" {
		return id
	}
	if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// ensureSessionID returns the caller's session ID, issuing a new one in a cookie if needed
func ensureSessionID(c echo.Context, cfg *config.Config) string {
	id := sessionID(c, cfg)
	if id == "" {
		id = utils.GenerateSessionID()
	}

	c.SetCookie(&http.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func clearSessionCookie(c echo.Context, cfg *config.Config) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Session.SecureCookie,
	})
}

func toReportResponse(r agent.Report) *models.ReportResponse {
	resp := &models.ReportResponse{
		Outcome: string(r.Outcome),
		Text:    r.Text,
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

func toJobQuery(req models.JobSearchRequest) agent.JobQuery {
	return agent.JobQuery{
		JobTitle:        req.JobTitle,
		Location:        req.Location,
		ExperienceYears: req.ExperienceYears,
		Skills:          req.SkillList(),
	}
}

// invalidFields lists the struct fields that failed validation
func invalidFields(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field())
	}
	return fields
}
