package agent

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// NormalizeToken lowercases s and joins its words with hyphens, e.g. "New York" -> "new-york"
func NormalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// JobListingURLs returns the job board search pages scraped for a title and location
func JobListingURLs(jobTitle, location string) []string {
	title := NormalizeToken(jobTitle)
	loc := NormalizeToken(location)

	return []string{
		fmt.Sprintf("https://www.naukri.com/%s-jobs-in-%s", url.PathEscape(title), url.PathEscape(loc)),
		fmt.Sprintf("https://www.indeed.com/jobs?q=%s&l=%s", url.QueryEscape(title), url.QueryEscape(loc)),
		fmt.Sprintf("https://www.monster.com/jobs/search/?q=%s&where=%s", url.QueryEscape(title), url.QueryEscape(loc)),
	}
}

// IndustryURLs returns the salary research pages scraped for a job category
func IndustryURLs(category string) []string {
	category = strings.TrimSpace(category)
	payscaleJob := strings.Join(strings.Fields(category), "_")

	return []string{
		fmt.Sprintf("https://www.payscale.com/research/US/Job=%s/Salary", url.PathEscape(payscaleJob)),
		fmt.Sprintf("https://www.glassdoor.com/Salaries/%s-salary-SRCH_KO0,%d.htm",
			url.PathEscape(NormalizeToken(category)), utf8.RuneCountInString(category)),
	}
}

// JoinSkills renders skills the way they are embedded in prompts
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
