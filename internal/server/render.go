package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jonathan/jd-admin/internal/form"
	"github.com/jonathan/jd-admin/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per screen.
const (
	pageCreate  = "create"
	pageJDs     = "jds"
	pageRanking = "ranking"
)

type pageSet struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"join": func(items []string) string {
		return strings.Join(items, ", ")
	},
	"modeLabel": func(m views.Mode) string {
		switch m {
		case views.ModePaste:
			return "Paste text"
		case views.ModeUpload:
			return "Upload file"
		default:
			return "Manual entry"
		}
	},
}

func loadPages() (*pageSet, error) {
	set := &pageSet{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageCreate, pageJDs, pageRanking} {
		t, err := template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		set.pages[name] = t
	}
	return set, nil
}

func (p *pageSet) render(name string, data *pageData) ([]byte, error) {
	t, ok := p.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page: %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fieldDef is one input of the JD fields form.
type fieldDef struct {
	Key      string
	Label    string
	List     bool
	Required bool
	Value    string
	Error    string
}

var fieldLabels = map[string]string{
	form.FieldTitle:             "Title",
	form.FieldLevel:             "Level",
	form.FieldLocation:          "Location",
	form.FieldTeamSize:          "Team Size",
	form.FieldBudget:            "Budget",
	form.FieldMandatorySkills:   "Mandatory Skills",
	form.FieldNiceToHaveSkills:  "Nice-to-Have Skills",
	form.FieldInclusionCriteria: "Inclusion Criteria",
	form.FieldExclusionCriteria: "Exclusion Criteria",
}

var requiredFields = map[string]bool{
	form.FieldTitle:           true,
	form.FieldLevel:           true,
	form.FieldLocation:        true,
	form.FieldMandatorySkills: true,
}

func fieldDefs(s views.CreateFormState) []fieldDef {
	lists := make(map[string]bool, len(form.ListFields))
	for _, k := range form.ListFields {
		lists[k] = true
	}

	defs := make([]fieldDef, 0, len(form.Fields))
	for _, key := range form.Fields {
		defs = append(defs, fieldDef{
			Key:      key,
			Label:    fieldLabels[key],
			List:     lists[key],
			Required: requiredFields[key],
			Value:    s.Draft.Get(key),
			Error:    s.Errors[key],
		})
	}
	return defs
}

// pageData is passed to every page template.
type pageData struct {
	Title  string
	Active string

	Form       views.CreateFormState
	Shell      views.ShellState
	Modes      []views.Mode
	FieldDefs  []fieldDef
	Confidence []views.ConfidenceRow
	Accept     string

	Rows      []views.JDRow
	ListError string

	Ranking views.RankingViewState
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data *pageData) {
	body, err := s.pages.render(name, data)
	if err != nil {
		s.logger.Error().Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
