// Package types provides type definitions for structured data exchanged with the JD service.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Status is the lifecycle state of a JD record.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// JDFields holds the structured fields a JD is generated from.
type JDFields struct {
	Title             string   `json:"title" validate:"notblank"`
	Level             string   `json:"level" validate:"notblank"`
	MandatorySkills   []string `json:"mandatory_skills" validate:"required,min=1,dive,notblank"`
	NiceToHaveSkills  []string `json:"nice_to_have_skills" validate:"dive,notblank"`
	Location          string   `json:"location" validate:"notblank"`
	TeamSize          int      `json:"team_size" validate:"min=1"`
	Budget            string   `json:"budget"`
	InclusionCriteria []string `json:"inclusion_criteria" validate:"dive,notblank"`
	ExclusionCriteria []string `json:"exclusion_criteria" validate:"dive,notblank"`
}

// Template is a named preset of JD fields. Fields absent from the service
// response stay nil so that applying a template leaves them untouched.
type Template struct {
	Title             *string   `json:"title,omitempty"`
	Level             *string   `json:"level,omitempty"`
	MandatorySkills   *[]string `json:"mandatory_skills,omitempty"`
	NiceToHaveSkills  *[]string `json:"nice_to_have_skills,omitempty"`
	Location          *string   `json:"location,omitempty"`
	TeamSize          *int      `json:"team_size,omitempty"`
	Budget            *string   `json:"budget,omitempty"`
	InclusionCriteria *[]string `json:"inclusion_criteria,omitempty"`
	ExclusionCriteria *[]string `json:"exclusion_criteria,omitempty"`
}

// Templates maps template name to its preset fields.
type Templates map[string]Template

// ExtractionResult is returned by the text and file extraction endpoints.
type ExtractionResult struct {
	Fields           JDFields           `json:"fields"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	OriginalText     string             `json:"original_text,omitempty"`
	FileName         string             `json:"file_name,omitempty"`
	FileSize         int64              `json:"file_size,omitempty"`
	Error            string             `json:"error,omitempty"` // Set when the service fell back to basic extraction
}

// JDVersion is one entry of a record's change history.
type JDVersion struct {
	VersionID string   `json:"version_id"`
	Timestamp string   `json:"timestamp"`
	Status    Status   `json:"status"`
	Action    string   `json:"action"`
	Fields    JDFields `json:"fields"`
	JDText    string   `json:"jd_text"`
}

// JDRecord is a generated job description as stored by the service.
// Timestamps are kept as the service formats them.
type JDRecord struct {
	JDID      string      `json:"jd_id"`
	Status    Status      `json:"status"`
	Fields    JDFields    `json:"fields"`
	JDText    string      `json:"jd_text"`
	Versions  []JDVersion `json:"versions,omitempty"`
	CreatedAt string      `json:"created_at,omitempty"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

// StatusResponse is returned by the approve and reject endpoints.
type StatusResponse struct {
	JDID   string `json:"jd_id"`
	Status Status `json:"status"`
}
