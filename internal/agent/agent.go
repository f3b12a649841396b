package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"job-hunt-agent/internal/llm"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/internal/scraper"
	"job-hunt-agent/pkg/models"
	"job-hunt-agent/pkg/utils"
)

// NoJobsMessage is returned when the job boards yield nothing usable
const NoJobsMessage = "No job listings found matching your criteria."

// Outcome tags how an operation ended
type Outcome string

const (
	OutcomeGenerated Outcome = "generated"
	OutcomeNoResults Outcome = "no_results"
	OutcomeFailed    Outcome = "failed"
)

// Report is the result of one agent operation. Text is always displayable;
// Err carries the underlying cause when there was one.
type Report struct {
	Outcome Outcome
	Text    string
	Err     error
}

// JobQuery holds the job search criteria entered by the user
type JobQuery struct {
	JobTitle        string
	Location        string
	ExperienceYears int
	Skills          []string
}

// Agent turns one extraction call and one generation call into a readable report
type Agent struct {
	extractor    scraper.Extractor
	generator    llm.Provider
	maxNewTokens int
	logger       types.Logger
}

// New creates an agent over the given adapters. The agent holds no other state.
func New(extractor scraper.Extractor, generator llm.Provider, maxNewTokens int, logger types.Logger) *Agent {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Agent{
		extractor:    extractor,
		generator:    generator,
		maxNewTokens: maxNewTokens,
		logger:       logger.WithField("component", "agent"),
	}
}

// NoTrendsMessage is returned when no trend data could be extracted for category
func NoTrendsMessage(category string) string {
	return fmt.Sprintf("No industry trends data available for %s.", category)
}

// FindJobs scrapes the job boards for q and asks the generator to analyse the postings
func (a *Agent) FindJobs(ctx context.Context, q JobQuery) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Job search panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			report = Report{
				Outcome: OutcomeFailed,
				Text:    fmt.Sprintf("An error occurred while searching for jobs: %v", r),
				Err:     fmt.Errorf("panic: %v", r),
			}
		}
	}()

	startTime := time.Now()
	urls := JobListingURLs(q.JobTitle, q.Location)
	logger := a.logger.WithFields(map[string]interface{}{
		"operation": "find_jobs",
		"job_title": q.JobTitle,
		"location":  q.Location,
	})

	var result models.JobExtractionResult
	if err := a.extract(ctx, logger, urls, BuildJobExtractionPrompt(q), models.JobExtractionSchema, &result); err != nil {
		return Report{Outcome: OutcomeNoResults, Text: NoJobsMessage, Err: err}
	}
	if len(result.JobPostings) == 0 {
		logger.Info("No job postings extracted")
		return Report{Outcome: OutcomeNoResults, Text: NoJobsMessage}
	}

	logger.Info("Job postings extracted", map[string]interface{}{"postings": len(result.JobPostings)})

	report = a.generate(ctx, logger, buildJobAnalysisPrompt(result.JobPostings))
	logger.Info("Job search finished", map[string]interface{}{
		"outcome":         string(report.Outcome),
		"processing_time": utils.FormatDuration(time.Since(startTime)),
	})
	return report
}

// GetIndustryTrends scrapes salary research pages for category and asks the generator to analyse them
func (a *Agent) GetIndustryTrends(ctx context.Context, category string) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Industry trends panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			report = Report{
				Outcome: OutcomeFailed,
				Text:    fmt.Sprintf("An error occurred while fetching industry trends: %v", r),
				Err:     fmt.Errorf("panic: %v", r),
			}
		}
	}()

	startTime := time.Now()
	logger := a.logger.WithFields(map[string]interface{}{
		"operation":    "industry_trends",
		"job_category": category,
	})

	var result models.IndustryTrendsResult
	if err := a.extract(ctx, logger, IndustryURLs(category), BuildTrendsExtractionPrompt(category), models.IndustryTrendsSchema, &result); err != nil {
		return Report{Outcome: OutcomeNoResults, Text: NoTrendsMessage(category), Err: err}
	}
	if len(result.IndustryTrends) == 0 {
		logger.Info("No industry trends extracted")
		return Report{Outcome: OutcomeNoResults, Text: NoTrendsMessage(category)}
	}

	logger.Info("Industry trends extracted", map[string]interface{}{"trends": len(result.IndustryTrends)})

	report = a.generate(ctx, logger, buildTrendsAnalysisPrompt(category, result.IndustryTrends))
	logger.Info("Industry trends finished", map[string]interface{}{
		"outcome":         string(report.Outcome),
		"processing_time": utils.FormatDuration(time.Since(startTime)),
	})
	return report
}

// extract runs one extraction and decodes its payload into out. An unsuccessful
// response is reported as an error.
func (a *Agent) extract(ctx context.Context, logger types.Logger, urls []string, prompt, schema string, out interface{}) error {
	resp, err := a.extractor.Extract(ctx, models.ExtractRequest{
		URLs:   urls,
		Prompt: prompt,
		Schema: models.SchemaMap(schema),
	})
	if err != nil {
		logger.WithError(err).Warn("Extraction failed")
		return err
	}
	if resp == nil || !resp.Success {
		err := fmt.Errorf("extraction was not successful")
		if resp != nil && resp.Error != "" {
			err = fmt.Errorf("extraction was not successful: %s", resp.Error)
		}
		logger.WithError(err).Warn("Extraction reported failure")
		return err
	}
	if !resp.HasData() {
		return nil
	}

	if err := json.Unmarshal(resp.Data, out); err != nil {
		logger.WithError(err).Warn("Extraction payload could not be decoded")
		return fmt.Errorf("failed to decode extraction payload: %w", err)
	}
	return nil
}

func (a *Agent) generate(ctx context.Context, logger types.Logger, prompt string) Report {
	text, err := a.generator.Generate(ctx, prompt, a.maxNewTokens)
	if err != nil {
		logger.WithError(err).Error("Generation failed", map[string]interface{}{
			"provider": a.generator.Name(),
		})
		return Report{
			Outcome: OutcomeFailed,
			Text:    fmt.Sprintf("Error generating text: %v", err),
			Err:     err,
		}
	}
	return Report{Outcome: OutcomeGenerated, Text: text}
}
