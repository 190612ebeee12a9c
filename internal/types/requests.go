package types

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// Report json names so error keys line up with form field keys
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError maps field names to human-readable messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CreateJDRequest is the body of POST /jd/create.
type CreateJDRequest struct {
	Fields JDFields `json:"fields"`
}

// UpdateTextRequest is the body of POST /jd/{id}/update-text.
type UpdateTextRequest struct {
	JDID   string `json:"-" field:"jd_id" validate:"notblank"`
	JDText string `json:"jd_text"`
}

// RejectRequest is the body of POST /jd/{id}/reject.
type RejectRequest struct {
	JDID   string `json:"-" field:"jd_id" validate:"notblank"`
	Reason string `json:"reason" validate:"notblank"`
}

// RankRequest is the body of POST /jd/rank-resumes.
type RankRequest struct {
	JDID           string `json:"jd_id" validate:"notblank"`
	DriveFolderURL string `json:"drive_folder_url" validate:"notblank"`
}

// NewCreateJDRequest validates fields and wraps them for the create call.
func NewCreateJDRequest(fields JDFields) (*CreateJDRequest, error) {
	if err := validateStruct(&fields); err != nil {
		return nil, err
	}
	return &CreateJDRequest{Fields: fields}, nil
}

// NewUpdateTextRequest builds an update-text request. Empty text is allowed.
func NewUpdateTextRequest(jdID, text string) (*UpdateTextRequest, error) {
	req := &UpdateTextRequest{JDID: jdID, JDText: text}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// NewRejectRequest builds a reject request.
func NewRejectRequest(jdID, reason string) (*RejectRequest, error) {
	req := &RejectRequest{JDID: jdID, Reason: reason}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// NewRankRequest builds a rank-resumes request. The folder reference is
// trimmed but otherwise passed through; the service resolves it.
func NewRankRequest(jdID, folderURL string) (*RankRequest, error) {
	req := &RankRequest{JDID: jdID, DriveFolderURL: strings.TrimSpace(folderURL)}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// validateStruct runs the struct validator and converts its errors.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		name := fieldName(fe)
		if _, exists := out.Fields[name]; exists {
			continue
		}
		out.Fields[name] = messageFor(fe)
	}
	return out
}

// fieldName strips slice indices so "mandatory_skills[2]" reports as "mandatory_skills".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
