package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/jd-admin/internal/form"
	"github.com/jonathan/jd-admin/internal/server/middleware"
	"github.com/jonathan/jd-admin/internal/views"
)

// maxUploadBytes bounds the size of an uploaded JD document.
const maxUploadBytes = 10 << 20

// shell returns the view shell of the request's session.
func (s *Server) shell(r *http.Request) (*views.Shell, error) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(context.WithoutCancel(r.Context()), id), nil
}

// callContext detaches service calls from the browser request. Leaving the
// page does not cancel a call already in flight.
func callContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// finish redirects back to the page after a transition. Errors the views
// already show are not reported again.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, err error, back string) {
	if err != nil && !isStateError(err) {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// shellHandler handles a request within a session.
type shellHandler func(w http.ResponseWriter, r *http.Request, sh *views.Shell)

// withShell resolves the session shell and parses the form body.
func (s *Server) withShell(fn shellHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := s.shell(r)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		if r.Method == http.MethodPost && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			if err := r.ParseForm(); err != nil {
				s.errorResponse(w, http.StatusBadRequest, "invalid form body")
				return
			}
		}
		fn(w, r, sh)
	}
}

func (s *Server) createPageData(sh *views.Shell) *pageData {
	state := sh.Form.Snapshot()
	data := &pageData{
		Title:     "Create JD",
		Active:    pageCreate,
		Form:      state,
		Shell:     sh.Snapshot(),
		Modes:     []views.Mode{views.ModeManual, views.ModePaste, views.ModeUpload},
		FieldDefs: fieldDefs(state),
		Accept:    strings.Join(form.AcceptedUploadExtensions, ","),
	}
	if state.Extraction != nil {
		data.Confidence = views.ConfidenceRows(state.Extraction.ConfidenceScores)
	}
	return data
}

func (s *Server) handleCreatePage(w http.ResponseWriter, _ *http.Request, sh *views.Shell) {
	s.renderPage(w, pageCreate, s.createPageData(sh))
}

func (s *Server) handleSelectMode(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	mode, ok := views.ParseMode(r.PostFormValue("mode"))
	if !ok {
		s.finish(w, r, &ErrValidation{Field: "mode", Message: "must be manual, paste or upload"}, "/")
		return
	}
	s.finish(w, r, sh.Form.SelectMode(mode), "/")
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	if !sh.Form.ApplyTemplate(r.PostFormValue("name")) {
		s.logger.Debug().Str("template", r.PostFormValue("name")).Msg("template not loaded")
	}
	s.finish(w, r, nil, "/")
}

// applyFields copies posted draft fields into the form. Absent keys are left alone.
func applyFields(r *http.Request, sh *views.Shell) error {
	for _, key := range form.Fields {
		if values, ok := r.PostForm[key]; ok && len(values) > 0 {
			if err := sh.Form.SetField(key, values[0]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) handleSaveFields(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	s.finish(w, r, applyFields(r, sh), "/")
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	if err := applyFields(r, sh); err != nil {
		s.finish(w, r, err, "/")
		return
	}
	s.finish(w, r, sh.Form.Submit(callContext(r)), "/")
}

func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	sh.Form.SetPasteText(r.PostFormValue("text"))
	s.finish(w, r, sh.Form.Extract(callContext(r)), "/")
}

func (s *Server) handleExtractFile(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.finish(w, r, &ErrValidation{Field: "file", Message: "invalid or oversized upload"}, "/")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			s.finish(w, r, views.ErrNothingToExtract, "/")
			return
		}
		s.finish(w, r, &ErrValidation{Field: "file", Message: err.Error()}, "/")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.finish(w, r, &ErrValidation{Field: "file", Message: "failed to read upload"}, "/")
		return
	}
	if err := sh.Form.SetUpload(header.Filename, content); err != nil {
		s.finish(w, r, err, "/")
		return
	}
	s.finish(w, r, sh.Form.Extract(callContext(r)), "/")
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	if values, ok := r.PostForm["jd_text"]; ok && len(values) > 0 {
		if err := sh.Form.EditText(values[0]); err != nil {
			s.finish(w, r, err, "/")
			return
		}
	}
	s.finish(w, r, sh.Form.Confirm(callContext(r)), "/")
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	sh.Form.SetFolderURL(r.PostFormValue("folder_url"))
	s.finish(w, r, sh.Form.Rank(callContext(r)), "/")
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	sh.Form.Reset()
	s.finish(w, r, nil, "/")
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	sh.Form.DismissAlert()
	s.finish(w, r, nil, "/")
}

func (s *Server) handleEditGenerated(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	if !sh.EditGenerated(r.PostFormValue("jd_text")) {
		s.finish(w, r, views.ErrNoRecord, "/")
		return
	}
	s.finish(w, r, nil, "/")
}

func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	_ = sh.RefreshList(callContext(r))
	records, err := sh.JDs.Records()

	data := &pageData{
		Title:  "Job Descriptions",
		Active: pageJDs,
		Rows:   sh.List.Rows(records),
	}
	if err != nil {
		data.ListError = views.ErrTextLoadFailed
	}
	s.renderPage(w, pageJDs, data)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	s.finish(w, r, sh.List.Approve(callContext(r), r.PathValue("id")), "/jds")
}

func (s *Server) handleRankingPage(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	_ = sh.Ranking.Load(callContext(r))
	s.renderPage(w, pageRanking, &pageData{
		Title:   "Resume Ranking",
		Active:  pageRanking,
		Ranking: sh.Ranking.Snapshot(),
	})
}

func (s *Server) handleRankingSubmit(w http.ResponseWriter, r *http.Request, sh *views.Shell) {
	sh.Ranking.Select(r.PostFormValue("jd_id"))
	sh.Ranking.SetFolderURL(r.PostFormValue("folder_url"))
	s.finish(w, r, sh.Ranking.Submit(callContext(r)), "/ranking")
}

// stateResponse is the JSON view of a session.
type stateResponse struct {
	Form    views.CreateFormState  `json:"form"`
	Shell   views.ShellState       `json:"shell"`
	Ranking views.RankingViewState `json:"ranking"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request, sh *views.Shell) {
	s.writeJSON(w, http.StatusOK, stateResponse{
		Form:    sh.Form.Snapshot(),
		Shell:   sh.Snapshot(),
		Ranking: sh.Ranking.Snapshot(),
	})
}
