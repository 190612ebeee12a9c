package schemas_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonathan/jd-admin/internal/schemas"
	embedded "github.com/jonathan/jd-admin/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range embedded.All() {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := embedded.FS.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestAllSchemaFiles_HaveMatchingID(t *testing.T) {
	for _, schemaFile := range embedded.All() {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := embedded.FS.ReadFile(schemaFile)
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj))

			assert.Equal(t, embedded.BaseURI+schemaFile, schemaObj["$id"])
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
		})
	}
}

func TestAllSchemaFiles_Compile(t *testing.T) {
	v := schemas.NewValidator()

	for _, schemaFile := range embedded.All() {
		t.Run(schemaFile, func(t *testing.T) {
			// A load failure surfaces as SchemaLoadError; a mismatch is fine here
			err := v.Validate(schemaFile, []byte(`{}`))
			_, isLoadErr := err.(*schemas.SchemaLoadError)
			assert.False(t, isLoadErr, "schema should compile: %v", err)
		})
	}
}

func TestAbsoluteRefsPointAtEmbeddedFiles(t *testing.T) {
	names := make(map[string]bool)
	for _, n := range embedded.All() {
		names[n] = true
	}

	for _, schemaFile := range embedded.All() {
		data, err := embedded.FS.ReadFile(schemaFile)
		require.NoError(t, err)

		for _, part := range strings.Split(string(data), embedded.BaseURI)[1:] {
			target := part
			if i := strings.IndexAny(target, "#\""); i >= 0 {
				target = target[:i]
			}
			assert.True(t, names[target], "%s references unknown schema %q", schemaFile, target)
		}
	}
}
