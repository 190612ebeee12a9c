package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-admin/internal/config"
	"github.com/jonathan/jd-admin/internal/types"
)

// clearEnv isolates a test from configuration in the environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvAPIBaseURL, config.EnvTimeoutSeconds, config.EnvPort,
		config.EnvSessionSecret, config.EnvSessionHours, config.EnvLogLevel, config.EnvLogFormat,
	} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--api-url", baseURL, "--log-level", "error"}, args...))
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestTemplatesCommand(t *testing.T) {
	_, srv := newJDService(t)

	out, err := run(t, srv.URL, "templates")
	require.NoError(t, err)

	assert.Contains(t, out, "JD TEMPLATES")
	assert.Contains(t, out, "Software Engineer")
	assert.Contains(t, out, "[title, level, mandatory_skills]")
}

func TestListCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
		wantErr  string
	}{
		{
			name:     "all",
			args:     []string{"list"},
			contains: []string{"Total: 2", "Data Engineer", "SRE"},
		},
		{
			name:     "status filter is case insensitive",
			args:     []string{"list", "--status", "approved"},
			contains: []string{"Total: 1", "SRE"},
			excludes: []string{"Data Engineer"},
		},
		{
			name:    "unknown status",
			args:    []string{"list", "--status", "archived"},
			wantErr: "--status must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newJDService(t)
			out, err := run(t, srv.URL, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestGetCommand_JSON(t *testing.T) {
	_, srv := newJDService(t)

	out, err := run(t, srv.URL, "--json", "get", "JD-2")
	require.NoError(t, err)

	var record types.JDRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, "JD-2", record.JDID)
	assert.Equal(t, types.StatusApproved, record.Status)
}

func TestGetCommand_NotFound(t *testing.T) {
	_, srv := newJDService(t)

	_, err := run(t, srv.URL, "get", "JD-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JD not found")
}

func TestGetCommand_RequiresID(t *testing.T) {
	svc, srv := newJDService(t)

	_, err := run(t, srv.URL, "get")
	assert.Error(t, err)
	assert.Empty(t, svc.Requests())
}

func TestCreateCommand(t *testing.T) {
	svc, srv := newJDService(t)

	out, err := run(t, srv.URL, "create",
		"--title", "Backend Engineer",
		"--level", "Senior",
		"--skills", "Go, SQL, ,Kafka",
		"--location", "Remote",
		"--team-size", "5 people",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "JD-NEW")
	assert.Contains(t, out, "We are hiring a Backend Engineer")

	var req types.CreateJDRequest
	require.NoError(t, json.Unmarshal(svc.Body("POST /jd/create"), &req))
	assert.Equal(t, []string{"Go", "SQL", "Kafka"}, req.Fields.MandatorySkills)
	assert.Equal(t, 5, req.Fields.TeamSize)
	assert.Empty(t, req.Fields.NiceToHaveSkills)
}

func TestCreateCommand_Template(t *testing.T) {
	svc, srv := newJDService(t)

	_, err := run(t, srv.URL, "create", "--template", "Software Engineer", "--location", "Pune", "--level", "Lead")
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /jd/templates", "POST /jd/create"}, svc.Requests())
	var req types.CreateJDRequest
	require.NoError(t, json.Unmarshal(svc.Body("POST /jd/create"), &req))
	assert.Equal(t, "Software Engineer", req.Fields.Title)
	assert.Equal(t, "Lead", req.Fields.Level, "flags override template values")
	assert.Equal(t, []string{"Go"}, req.Fields.MandatorySkills)
	assert.Equal(t, 1, req.Fields.TeamSize)
}

func TestCreateCommand_UnknownTemplate(t *testing.T) {
	_, srv := newJDService(t)

	_, err := run(t, srv.URL, "create", "--template", "Astronaut")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown template "Astronaut"`)
}

func TestCreateCommand_MissingFields(t *testing.T) {
	svc, srv := newJDService(t)

	_, err := run(t, srv.URL, "create", "--title", "Designer", "--skills", " , ")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "Level is required (--level)")
	assert.Contains(t, err.Error(), "Location is required (--location)")
	assert.Contains(t, err.Error(), "Mandatory skills are required (--skills)")
	assert.NotContains(t, err.Error(), "Title")
	assert.Empty(t, svc.Requests())
}

func TestExtractCommand_Text(t *testing.T) {
	svc, srv := newJDService(t)

	out, err := run(t, srv.URL, "extract", "--text", "Senior ML engineer")
	require.NoError(t, err)

	assert.Contains(t, out, "EXTRACTED FIELDS")
	assert.Contains(t, out, "ML Engineer")
	assert.Contains(t, out, "90%")
	assert.Equal(t, []string{"POST /jd/extract/text"}, svc.Requests())
}

func TestExtractCommand_File(t *testing.T) {
	svc, srv := newJDService(t)
	path := filepath.Join(t.TempDir(), "role.docx")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("d"), 1536), 0o600))

	out, err := run(t, srv.URL, "extract", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "role.docx (1.5 KB)")
	assert.Equal(t, 1536, svc.uploads["role.docx"])
}

func TestExtractCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no input", []string{"extract"}, "text"},
		{"both inputs", []string{"extract", "--text", "a", "--file", "b.pdf"}, "text"},
		{"blank text", []string{"extract", "--text", "   "}, "--text is empty"},
		{"unsupported file", []string{"extract", "--file", "notes.txt"}, "unsupported file type: notes.txt"},
		{"missing file", []string{"extract", "--file", "/nonexistent/role.pdf"}, "failed to open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, srv := newJDService(t)
			_, err := run(t, srv.URL, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, svc.Requests())
		})
	}
}

func TestUpdateTextCommand_FromFile(t *testing.T) {
	svc, srv := newJDService(t)
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Rewritten JD"), 0o600))

	out, err := run(t, srv.URL, "update-text", "JD-1", "--text-file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Rewritten JD")
	assert.JSONEq(t, `{"jd_text": "Rewritten JD"}`, string(svc.Body("POST /jd/JD-1/update-text")))
}

func TestUpdateTextCommand_EmptyTextAllowed(t *testing.T) {
	svc, srv := newJDService(t)

	_, err := run(t, srv.URL, "update-text", "JD-1", "--text", "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"jd_text": ""}`, string(svc.Body("POST /jd/JD-1/update-text")))
}

func TestStatusCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		request string
	}{
		{"approve", []string{"approve", "JD-1"}, "JD-1 is now APPROVED", "POST /jd/JD-1/approve"},
		{"reject", []string{"reject", "JD-1", "--reason", "Budget cut"}, "JD-1 is now REJECTED", "POST /jd/JD-1/reject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, srv := newJDService(t)
			out, err := run(t, srv.URL, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
			assert.Equal(t, []string{tt.request}, svc.Requests())
		})
	}
}

func TestRejectCommand_RequiresReason(t *testing.T) {
	svc, srv := newJDService(t)

	_, err := run(t, srv.URL, "reject", "JD-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason")
	assert.Empty(t, svc.Requests())
}

func TestRegenerateCommand(t *testing.T) {
	_, srv := newJDService(t)

	out, err := run(t, srv.URL, "regenerate", "JD-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Fresh text")
}

func TestRankCommand(t *testing.T) {
	svc, srv := newJDService(t)

	out, err := run(t, srv.URL, "rank", "JD-2", "--folder", " https://drive.google.com/drive/folders/abc ", "--candidates")
	require.NoError(t, err)

	assert.Contains(t, out, "RESUME RANKING")
	assert.Contains(t, out, "91.0%  High Match")
	assert.Contains(t, out, "55.0%  Medium Match")
	assert.Contains(t, out, "NVISUST-2025-0001  PASS")
	assert.Contains(t, out, "Candidate 2")
	assert.JSONEq(t, `{"jd_id": "JD-2", "drive_folder_url": "https://drive.google.com/drive/folders/abc"}`,
		string(svc.Body("POST /jd/rank-resumes")))
}

func TestRankCommand_JSON(t *testing.T) {
	_, srv := newJDService(t)

	out, err := run(t, srv.URL, "--json", "rank", "JD-2", "--folder", "f", "--candidates")
	require.NoError(t, err)

	var got struct {
		JDID       string            `json:"jd_id"`
		Results    []json.RawMessage `json:"results"`
		Candidates []types.Candidate `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "JD-2", got.JDID)
	assert.Len(t, got.Results, 2)
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, types.DecisionReview, got.Candidates[1].ScreeningDecision)
	assert.Equal(t, types.MatchMedium, got.Candidates[1].MatchLevel)
}

func TestRankCommand_RequiresFolder(t *testing.T) {
	_, srv := newJDService(t)

	_, err := run(t, srv.URL, "rank", "JD-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folder")
}

func TestServiceUnreachable(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list JDs")
}
