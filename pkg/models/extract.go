package models

import "encoding/json"

// ExtractRequest is a single call to the extraction provider
type ExtractRequest struct {
	URLs   []string               `json:"urls"`
	Prompt string                 `json:"prompt"`
	Schema map[string]interface{} `json:"schema"`
}

// ExtractResponse mirrors the provider's extract response. Only Success and Data
// are consumed by the agent; Status and ExpiresAt are kept for logging.
type ExtractResponse struct {
	Success   bool            `json:"success"`
	ID        string          `json:"id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Status    string          `json:"status,omitempty"`
	ExpiresAt string          `json:"expiresAt,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// HasData reports whether the response carries a non-null payload
func (r *ExtractResponse) HasData() bool {
	if r == nil || len(r.Data) == 0 {
		return false
	}
	return string(r.Data) != "null"
}

// JobExtractionSchema is the JSON schema sent with job search extractions
const JobExtractionSchema = `{
  "type": "object",
  "properties": {
    "job_postings": {
      "type": "array",
      "description": "List of job postings",
      "items": {
        "type": "object",
        "properties": {
          "region": { "type": "string", "description": "Region or area where the job is located" },
          "role": { "type": "string", "description": "Specific role or function within the job category" },
          "job_title": { "type": "string", "description": "Title of the job position" },
          "experience": { "type": "string", "description": "Experience required for the position" },
          "job_link": { "type": "string", "description": "Link to the job posting" }
        }
      }
    }
  },
  "required": ["job_postings"]
}`

// IndustryTrendsSchema is the JSON schema sent with industry trend extractions
const IndustryTrendsSchema = `{
  "type": "object",
  "properties": {
    "industry_trends": {
      "type": "array",
      "description": "List of industry trends",
      "items": {
        "type": "object",
        "properties": {
          "industry": { "type": "string", "description": "Industry name" },
          "avg_salary": { "type": "number", "description": "Average salary in the industry" },
          "growth_rate": { "type": "number", "description": "Growth rate of the industry" },
          "demand_level": { "type": "string", "description": "Demand level in the industry" },
          "top_skills": {
            "type": "array",
            "description": "Top skills in demand for this industry",
            "items": { "type": "string" }
          }
        }
      }
    }
  },
  "required": ["industry_trends"]
}`

// SchemaMap decodes one of the schema constants into the generic form the provider expects
func SchemaMap(schema string) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal([]byte(schema), &out)
	return out
}
