// Package schemas embeds the JSON Schema documents describing JD service responses.
package schemas

import "embed"

// BaseURI is the $id prefix shared by every embedded schema.
const BaseURI = "https://jd-admin.local/schemas/"

// Schema file names.
const (
	Common     = "common.schema.json"
	JDRecord   = "jd_record.schema.json"
	JDList     = "jd_list.schema.json"
	Status     = "status.schema.json"
	Extraction = "extraction.schema.json"
	Templates  = "templates.schema.json"
	Ranking    = "ranking.schema.json"
)

// FS holds the schema documents.
//
//go:embed *.schema.json
var FS embed.FS

// All lists every schema file name.
func All() []string {
	return []string{Common, JDRecord, JDList, Status, Extraction, Templates, Ranking}
}
