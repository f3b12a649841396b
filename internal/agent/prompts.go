package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const jobExtractionPrompt = `Extract job postings by region, roles, job titles, and experience from these job sites.
Look for jobs that match these criteria:
- Job Title: Should be related to %s
- Location: %s (include remote jobs if available)
- Experience: Around %d years
- Skills: Should match at least some of these skills: %s
- Job Type: Full-time, Part-time, Contract, Temporary, Internship
Extract:
- region, role, job_title, experience, job_link
MAX 10 postings.
`

const jobAnalysisPrompt = `As a career expert, analyze these job opportunities:
Jobs:
%s
INSTRUCTIONS:
1. Select best matching 5-6 jobs.
2. Provide:
💼 SELECTED JOB OPPORTUNITIES
- Job Title and Role
- Region/Location
- Experience Required
- Pros and Cons
- Job Link
🔍 SKILLS MATCH ANALYSIS
- Skills match
- Experience fit
- Growth potential
💡 RECOMMENDATIONS
- Top 3 jobs
- Career growth
📝 APPLICATION TIPS
- Resume and strategy tips
`

const trendsExtractionPrompt = `Extract industry trends data for the %s industry.
For each, extract:
- industry, avg_salary, growth_rate, demand_level, top_skills
3-5 roles/sub-categories.
`

const trendsAnalysisPrompt = `Analyze these trends for %s:
%s
📊 INDUSTRY TRENDS SUMMARY
🔥 TOP SKILLS IN DEMAND
📈 CAREER GROWTH OPPORTUNITIES
🎯 RECOMMENDATIONS FOR JOB SEEKERS
`

// BuildJobExtractionPrompt states the matching criteria sent to the extraction provider
func BuildJobExtractionPrompt(q JobQuery) string {
	return fmt.Sprintf(jobExtractionPrompt, q.JobTitle, q.Location, q.ExperienceYears, JoinSkills(q.Skills))
}

func buildJobAnalysisPrompt(postings interface{}) string {
	return fmt.Sprintf(jobAnalysisPrompt, renderRecords(postings))
}

// BuildTrendsExtractionPrompt asks the extraction provider for trend records of category
func BuildTrendsExtractionPrompt(category string) string {
	return fmt.Sprintf(trendsExtractionPrompt, category)
}

func buildTrendsAnalysisPrompt(category string, trends interface{}) string {
	return fmt.Sprintf(trendsAnalysisPrompt, category, renderRecords(trends))
}

// renderRecords writes records as indented JSON, leaving "&" in job links unescaped
func renderRecords(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
