package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"job-hunt-agent/internal/agent"
	"job-hunt-agent/internal/api/middleware"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/session"
	"job-hunt-agent/pkg/models"
)

// Messages shown by the web UI
const (
	MissingCredentialsMessage = "⚠️ Please provide all required API keys and model URL."
	AgentNotReadyMessage      = "⚠️ Please enter your API keys in the sidebar first!"
	MissingTitleOrLocation    = "⚠️ Please enter both job title and location!"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	Categories       []string
	Provider         string
	RequireModelURL  bool
	HasModelURL      bool
	HasGenerationKey bool
	HasFirecrawlKey  bool
	Ready            bool

	Form models.SearchRequest

	Errors   []string
	Warnings []string

	JobsHTML   template.HTML
	TrendsHTML template.HTML
	Searched   bool
}

// IndexHandler renders the search page
func IndexHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := newPageData(c, cfg, registry)
		if err != nil {
			return err
		}
		return renderPage(c, data)
	}
}

// SaveCredentialsFormHandler stores the sidebar credentials and returns to the page
func SaveCredentialsFormHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)

		var req models.CredentialsRequest
		if err := bindAndValidate(c, &req); err != nil {
			data, dataErr := newPageData(c, cfg, registry)
			if dataErr != nil {
				return dataErr
			}
			data.Errors = append(data.Errors, "⚠️ "+err.Error())
			return renderPage(c, data)
		}

		id := ensureSessionID(c, cfg)
		if err := registry.Update(c.Request().Context(), id, session.Credentials{
			ModelURL:         req.ModelURL,
			GenerationAPIKey: req.GenerationAPIKey,
			FirecrawlAPIKey:  req.FirecrawlAPIKey,
		}); err != nil {
			logging.LogWithRequestID(requestID).WithError(err).Error("Failed to save session")
			return err
		}

		return c.Redirect(http.StatusSeeOther, "/")
	}
}

// SearchFormHandler runs both operations for the submitted form and renders the results
func SearchFormHandler(cfg *config.Config, registry *session.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		data, err := newPageData(c, cfg, registry)
		if err != nil {
			return err
		}

		var req models.SearchRequest
		if err := c.Bind(&req); err != nil {
			data.Errors = append(data.Errors, "⚠️ Invalid form submission")
			return renderPage(c, data)
		}
		data.Form = req

		ctx := c.Request().Context()
		a, err := registry.Agent(ctx, sessionID(c, cfg))
		if err != nil {
			logger.WithError(err).Warn("Search attempted without an agent")
			data.Errors = append(data.Errors, AgentNotReadyMessage)
			return renderPage(c, data)
		}

		if err := validate.Struct(&req); err != nil {
			data.Errors = append(data.Errors, formErrorMessage(err))
			return renderPage(c, data)
		}

		if len(req.SkillList()) == 0 {
			data.Warnings = append(data.Warnings, "⚠️ "+NoSkillsWarning)
		}

		jobs := a.FindJobs(ctx, toJobQuery(req.JobSearchRequest))
		trends := a.GetIndustryTrends(ctx, req.JobCategory)

		data.Searched = true
		data.JobsHTML = renderMarkdown(jobs, logger)
		data.TrendsHTML = renderMarkdown(trends, logger)

		return renderPage(c, data)
	}
}

func newPageData(c echo.Context, cfg *config.Config, registry *session.Registry) (*pageData, error) {
	creds, err := registry.Credentials(c.Request().Context(), sessionID(c, cfg))
	if err != nil {
		return nil, err
	}

	data := &pageData{
		Categories:       models.JobCategories,
		Provider:         cfg.Generation.Provider,
		RequireModelURL:  registry.RequiresModelURL(),
		HasModelURL:      creds.ModelURL != "",
		HasGenerationKey: creds.GenerationAPIKey != "",
		HasFirecrawlKey:  creds.FirecrawlAPIKey != "",
		Ready:            creds.Complete(registry.RequiresModelURL()),
	}
	data.Form.ExperienceYears = models.DefaultExperienceYears
	data.Form.JobCategory = models.JobCategories[0]

	if !data.Ready {
		data.Warnings = append(data.Warnings, MissingCredentialsMessage)
	}
	return data, nil
}

func formErrorMessage(err error) string {
	for _, field := range invalidFields(err) {
		if field == "JobTitle" || field == "Location" {
			return MissingTitleOrLocation
		}
	}
	return "⚠️ " + err.Error()
}

// renderMarkdown converts report text to HTML. Raw HTML in the text is not passed through.
func renderMarkdown(report agent.Report, logger logging.Logger) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(report.Text), &buf); err != nil {
		logger.WithError(err).Warn("Failed to render markdown")
		return template.HTML("<pre>" + template.HTMLEscapeString(report.Text) + "</pre>")
	}
	return template.HTML(buf.String())
}

func renderPage(c echo.Context, data *pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
