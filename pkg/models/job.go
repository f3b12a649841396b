package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// JobPosting is a single posting extracted from a job board. Every field is optional.
type JobPosting struct {
	Region     string `json:"region,omitempty"`
	Role       string `json:"role,omitempty"`
	JobTitle   string `json:"job_title,omitempty"`
	Experience string `json:"experience,omitempty"`
	JobLink    string `json:"job_link,omitempty"`
}

// JobExtractionResult is the payload requested from the extraction provider for a job search
type JobExtractionResult struct {
	JobPostings []JobPosting `json:"job_postings"`
}

// IndustryTrend describes salary and demand figures for one industry or sub-category
type IndustryTrend struct {
	Industry    string   `json:"industry,omitempty"`
	AvgSalary   *float64 `json:"avg_salary,omitempty"`
	GrowthRate  *float64 `json:"growth_rate,omitempty"`
	DemandLevel string   `json:"demand_level,omitempty"`
	TopSkills   []string `json:"top_skills,omitempty"`
}

// IndustryTrendsResult is the payload requested from the extraction provider for trend research
type IndustryTrendsResult struct {
	IndustryTrends []IndustryTrend `json:"industry_trends"`
}

// UnmarshalJSON decodes a posting field by field so that one malformed value
// does not discard the whole record.
func (p *JobPosting) UnmarshalJSON(data []byte) error {
	fields, ok := decodeObject(data)
	if !ok {
		*p = JobPosting{}
		return nil
	}

	*p = JobPosting{
		Region:     lenientString(fields["region"]),
		Role:       lenientString(fields["role"]),
		JobTitle:   lenientString(fields["job_title"]),
		Experience: lenientString(fields["experience"]),
		JobLink:    lenientString(fields["job_link"]),
	}
	return nil
}

// UnmarshalJSON decodes the result leniently; a missing or non-array list yields no postings.
func (r *JobExtractionResult) UnmarshalJSON(data []byte) error {
	fields, ok := decodeObject(data)
	if !ok {
		*r = JobExtractionResult{}
		return nil
	}

	var postings []JobPosting
	for _, item := range decodeArray(fields["job_postings"]) {
		if _, isObject := decodeObject(item); !isObject {
			continue
		}
		var posting JobPosting
		_ = posting.UnmarshalJSON(item)
		postings = append(postings, posting)
	}

	r.JobPostings = postings
	return nil
}

// UnmarshalJSON decodes a trend record leniently. Numbers may arrive as JSON numbers
// or as decorated strings such as "$120,000" or "12.5%".
func (t *IndustryTrend) UnmarshalJSON(data []byte) error {
	fields, ok := decodeObject(data)
	if !ok {
		*t = IndustryTrend{}
		return nil
	}

	*t = IndustryTrend{
		Industry:    lenientString(fields["industry"]),
		AvgSalary:   lenientNumber(fields["avg_salary"]),
		GrowthRate:  lenientNumber(fields["growth_rate"]),
		DemandLevel: lenientString(fields["demand_level"]),
		TopSkills:   lenientStrings(fields["top_skills"]),
	}
	return nil
}

// UnmarshalJSON decodes the result leniently; a missing or non-array list yields no trends.
func (r *IndustryTrendsResult) UnmarshalJSON(data []byte) error {
	fields, ok := decodeObject(data)
	if !ok {
		*r = IndustryTrendsResult{}
		return nil
	}

	var trends []IndustryTrend
	for _, item := range decodeArray(fields["industry_trends"]) {
		if _, isObject := decodeObject(item); !isObject {
			continue
		}
		var trend IndustryTrend
		_ = trend.UnmarshalJSON(item)
		trends = append(trends, trend)
	}

	r.IndustryTrends = trends
	return nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func decodeArray(data json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil
	}
	return items
}

// lenientString returns strings as-is, renders numbers and booleans as text and
// treats everything else as absent.
func lenientString(data json.RawMessage) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return ""
		}
		return strconv.FormatBool(b)
	case 'n', '{', '[':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return ""
		}
		return n.String()
	}
}

func lenientNumber(data json.RawMessage) *float64 {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '"' {
		return parseDecoratedNumber(lenientString(trimmed))
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil
	}
	return &f
}

// parseDecoratedNumber strips currency symbols, thousands separators and percent signs.
func parseDecoratedNumber(s string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return nil
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

func lenientStrings(data json.RawMessage) []string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '"' {
		return SplitCommaList(lenientString(trimmed))
	}

	var out []string
	for _, item := range decodeArray(trimmed) {
		if s := lenientString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitCommaList splits comma separated text, trimming items and dropping empty ones.
func SplitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
