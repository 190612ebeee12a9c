package schemas

import (
	"testing"

	embedded "github.com/jonathan/jd-admin/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_JDRecord_Valid(t *testing.T) {
	v := NewValidator()

	doc := `{
		"jd_id": "JD-1A2B3C4D",
		"status": "DRAFT",
		"jd_text": "Backend Engineer (Senior)",
		"fields": {"title": "Backend Engineer", "mandatory_skills": ["Go"], "team_size": 3},
		"versions": [{"version_id": "V1-AB12", "timestamp": "2025-01-01T10:00:00.123456", "status": "DRAFT", "action": "Created"}],
		"created_at": "2025-01-01T10:00:00.123456"
	}`

	assert.NoError(t, v.Validate(embedded.JDRecord, []byte(doc)))
}

func TestValidator_JDRecord_MissingID(t *testing.T) {
	v := NewValidator()

	err := v.Validate(embedded.JDRecord, []byte(`{"status": "DRAFT", "jd_text": "x"}`))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, embedded.JDRecord, validationErr.Schema)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidator_JDRecord_UnknownStatus(t *testing.T) {
	v := NewValidator()

	err := v.Validate(embedded.JDRecord, []byte(`{"jd_id": "JD-1", "status": "ARCHIVED", "jd_text": ""}`))
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestValidator_JDList_ResolvesNestedRefs(t *testing.T) {
	v := NewValidator()

	valid := `[{"jd_id": "JD-1", "status": "APPROVED", "jd_text": "a"}, {"jd_id": "JD-2", "status": "DRAFT", "jd_text": "b"}]`
	assert.NoError(t, v.Validate(embedded.JDList, []byte(valid)))

	invalid := `[{"jd_id": "JD-1", "status": "APPROVED"}]`
	assert.Error(t, v.Validate(embedded.JDList, []byte(invalid)))
}

func TestValidator_Extraction_AllowsNulls(t *testing.T) {
	v := NewValidator()

	doc := `{
		"fields": {"title": "Extracted Title", "team_size": null, "budget": null, "mandatory_skills": []},
		"confidence_scores": {"title": 0.9, "level": 0.4}
	}`
	assert.NoError(t, v.Validate(embedded.Extraction, []byte(doc)))
}

func TestValidator_Extraction_ConfidenceOutOfRange(t *testing.T) {
	v := NewValidator()

	doc := `{"fields": {}, "confidence_scores": {"title": 1.5}}`
	assert.Error(t, v.Validate(embedded.Extraction, []byte(doc)))
}

func TestValidator_Ranking(t *testing.T) {
	v := NewValidator()

	doc := `{
		"jd_id": "JD-1",
		"drive_folder_id": "abc",
		"results": [
			{"rank": 1, "resume_name": "a.pdf", "score": 0.85, "experience_level": 0.8, "matched_keywords": ["Go"], "status": "High Match"}
		]
	}`
	assert.NoError(t, v.Validate(embedded.Ranking, []byte(doc)))

	badRank := `{"jd_id": "JD-1", "results": [{"rank": 0, "score": 0.5}]}`
	assert.Error(t, v.Validate(embedded.Ranking, []byte(badRank)))
}

func TestValidator_Templates(t *testing.T) {
	v := NewValidator()

	doc := `{"ML Engineer": {"title": "ML Engineer", "mandatory_skills": ["Python"], "team_size": 4}}`
	assert.NoError(t, v.Validate(embedded.Templates, []byte(doc)))

	assert.Error(t, v.Validate(embedded.Templates, []byte(`{"X": {"team_size": "four"}}`)))
}

func TestValidator_UnknownSchema(t *testing.T) {
	v := NewValidator()

	err := v.Validate("missing.schema.json", []byte(`{}`))
	require.Error(t, err)
	assert.IsType(t, &SchemaLoadError{}, err)
}

func TestValidator_CachesCompiledSchema(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(embedded.Status, []byte(`{"jd_id": "JD-1", "status": "APPROVED"}`)))
	require.Len(t, v.compiled, 1)

	require.NoError(t, v.Validate(embedded.Status, []byte(`{"jd_id": "JD-2", "status": "REJECTED"}`)))
	assert.Len(t, v.compiled, 1)
}

func TestValidationError_Message(t *testing.T) {
	v := NewValidator()

	err := v.Validate(embedded.Status, []byte(`{"status": "APPROVED"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response does not match "+embedded.Status)
	assert.Contains(t, err.Error(), "1. (root):")
}
