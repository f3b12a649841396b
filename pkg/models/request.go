package models

// JobCategories is the fixed list of industry categories offered to the user
var JobCategories = []string{
	"Information Technology",
	"Software Development",
	"Data Science",
	"Marketing",
	"Finance",
	"Healthcare",
	"Education",
	"Engineering",
	"Sales",
	"Human Resources",
}

// DefaultExperienceYears is preselected in the search form
const DefaultExperienceYears = 2

// CredentialsRequest carries the provider credentials for a session
type CredentialsRequest struct {
	ModelURL         string `json:"model_url" form:"model_url" validate:"omitempty,url"`
	GenerationAPIKey string `json:"generation_api_key" form:"generation_api_key"`
	FirecrawlAPIKey  string `json:"firecrawl_api_key" form:"firecrawl_api_key"`
}

// JobSearchRequest is the job search half of the search form
type JobSearchRequest struct {
	JobTitle        string `json:"job_title" form:"job_title" validate:"required,max=200"`
	Location        string `json:"location" form:"location" validate:"required,max=200"`
	ExperienceYears int    `json:"experience_years" form:"experience_years" validate:"min=0,max=30"`
	Skills          string `json:"skills" form:"skills" validate:"max=2000"`
}

// SkillList returns the comma separated skills as a trimmed list
func (r *JobSearchRequest) SkillList() []string {
	return SplitCommaList(r.Skills)
}

// IndustryTrendsRequest selects the category for trend research
type IndustryTrendsRequest struct {
	JobCategory string `json:"job_category" form:"job_category" validate:"required,job_category"`
}

// SearchRequest is the full form submitted by the "Start Job Search" action
type SearchRequest struct {
	JobSearchRequest
	JobCategory string `json:"job_category" form:"job_category" validate:"required,job_category"`
}

// PreviewRequest asks for a diagnostic scrape of one listing page
type PreviewRequest struct {
	URL string `json:"url" validate:"required,url"`
}
