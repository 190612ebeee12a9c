// Package form holds the editable text form of JD fields and the rules for
// turning it into a request payload.
package form

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/jonathan/jd-admin/internal/types"
)

// Field keys, matching the service's JSON field names.
const (
	FieldTitle             = "title"
	FieldLevel             = "level"
	FieldMandatorySkills   = "mandatory_skills"
	FieldNiceToHaveSkills  = "nice_to_have_skills"
	FieldLocation          = "location"
	FieldTeamSize          = "team_size"
	FieldBudget            = "budget"
	FieldInclusionCriteria = "inclusion_criteria"
	FieldExclusionCriteria = "exclusion_criteria"
)

// Fields lists every draft field key in display order.
var Fields = []string{
	FieldTitle,
	FieldLevel,
	FieldLocation,
	FieldTeamSize,
	FieldBudget,
	FieldMandatorySkills,
	FieldNiceToHaveSkills,
	FieldInclusionCriteria,
	FieldExclusionCriteria,
}

// ListFields are the fields edited as comma-separated text.
var ListFields = []string{
	FieldMandatorySkills,
	FieldNiceToHaveSkills,
	FieldInclusionCriteria,
	FieldExclusionCriteria,
}

// DefaultTeamSize is used when team size is missing or not a positive integer.
const DefaultTeamSize = 1

// Draft is the text the user is editing. List fields hold comma-joined text.
type Draft struct {
	Title             string `json:"title"`
	Level             string `json:"level"`
	MandatorySkills   string `json:"mandatory_skills"`
	NiceToHaveSkills  string `json:"nice_to_have_skills"`
	Location          string `json:"location"`
	TeamSize          string `json:"team_size"`
	Budget            string `json:"budget"`
	InclusionCriteria string `json:"inclusion_criteria"`
	ExclusionCriteria string `json:"exclusion_criteria"`
}

// UnknownFieldError is returned when a field key is not part of the draft.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field: %s", e.Field)
}

func (d *Draft) ref(key string) *string {
	switch key {
	case FieldTitle:
		return &d.Title
	case FieldLevel:
		return &d.Level
	case FieldMandatorySkills:
		return &d.MandatorySkills
	case FieldNiceToHaveSkills:
		return &d.NiceToHaveSkills
	case FieldLocation:
		return &d.Location
	case FieldTeamSize:
		return &d.TeamSize
	case FieldBudget:
		return &d.Budget
	case FieldInclusionCriteria:
		return &d.InclusionCriteria
	case FieldExclusionCriteria:
		return &d.ExclusionCriteria
	}
	return nil
}

// Get returns the text of a field, or "" for an unknown key.
func (d *Draft) Get(key string) string {
	if p := d.ref(key); p != nil {
		return *p
	}
	return ""
}

// Set overwrites the text of a field.
func (d *Draft) Set(key, value string) error {
	p := d.ref(key)
	if p == nil {
		return &UnknownFieldError{Field: key}
	}
	*p = value
	return nil
}

// ApplyTemplate overwrites the fields present in the template. List fields
// are joined to comma text exactly as a user would type them.
func (d *Draft) ApplyTemplate(t types.Template) {
	setString(&d.Title, t.Title)
	setString(&d.Level, t.Level)
	setList(&d.MandatorySkills, t.MandatorySkills)
	setList(&d.NiceToHaveSkills, t.NiceToHaveSkills)
	setString(&d.Location, t.Location)
	if t.TeamSize != nil {
		d.TeamSize = strconv.Itoa(*t.TeamSize)
	}
	setString(&d.Budget, t.Budget)
	setList(&d.InclusionCriteria, t.InclusionCriteria)
	setList(&d.ExclusionCriteria, t.ExclusionCriteria)
}

// ApplyFields overwrites every field from a structured result, as after extraction.
func (d *Draft) ApplyFields(f types.JDFields) {
	d.Title = f.Title
	d.Level = f.Level
	d.MandatorySkills = JoinList(f.MandatorySkills)
	d.NiceToHaveSkills = JoinList(f.NiceToHaveSkills)
	d.Location = f.Location
	d.TeamSize = ""
	if f.TeamSize > 0 {
		d.TeamSize = strconv.Itoa(f.TeamSize)
	}
	d.Budget = f.Budget
	d.InclusionCriteria = JoinList(f.InclusionCriteria)
	d.ExclusionCriteria = JoinList(f.ExclusionCriteria)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *string, v *[]string) {
	if v != nil {
		*dst = JoinList(*v)
	}
}

// Validate reports required fields that are blank after trimming. The map is
// empty when the draft can be submitted.
func (d *Draft) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(d.Title) == "" {
		errs[FieldTitle] = "Title is required"
	}
	if strings.TrimSpace(d.Level) == "" {
		errs[FieldLevel] = "Level is required"
	}
	if len(SplitList(d.MandatorySkills)) == 0 {
		errs[FieldMandatorySkills] = "Mandatory skills are required"
	}
	if strings.TrimSpace(d.Location) == "" {
		errs[FieldLocation] = "Location is required"
	}
	return errs
}

// BuildFields validates the draft and narrows it to the typed payload.
// Returns *types.ValidationError when required fields are blank.
func (d *Draft) BuildFields() (types.JDFields, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return types.JDFields{}, &types.ValidationError{Fields: errs}
	}

	fields := types.JDFields{
		Title:             strings.TrimSpace(d.Title),
		Level:             strings.TrimSpace(d.Level),
		MandatorySkills:   SplitList(d.MandatorySkills),
		NiceToHaveSkills:  SplitList(d.NiceToHaveSkills),
		Location:          strings.TrimSpace(d.Location),
		TeamSize:          CoerceTeamSize(d.TeamSize),
		Budget:            strings.TrimSpace(d.Budget),
		InclusionCriteria: SplitList(d.InclusionCriteria),
		ExclusionCriteria: SplitList(d.ExclusionCriteria),
	}

	// Second pass at the request boundary
	if _, err := types.NewCreateJDRequest(fields); err != nil {
		return types.JDFields{}, err
	}
	return fields, nil
}

// SplitList splits comma text into trimmed, non-empty entries.
// The result is never nil so it serialises as an empty JSON array.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList renders a list as comma text for editing.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// CoerceTeamSize reads the leading integer of s. Missing, unparseable, or
// non-positive values fall back to DefaultTeamSize.
func CoerceTeamSize(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == digitsStart {
		return DefaultTeamSize
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return DefaultTeamSize
	}
	return n
}

// AcceptedUploadExtensions are the document types offered for upload.
var AcceptedUploadExtensions = []string{".pdf", ".docx"}

// AcceptedUpload reports whether a file name has an accepted extension.
// Content is not inspected.
func AcceptedUpload(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, accepted := range AcceptedUploadExtensions {
		if ext == accepted {
			return true
		}
	}
	return false
}
