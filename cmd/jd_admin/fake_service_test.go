package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jonathan/jd-admin/internal/types"
)

// jdService is a fake JD service recording the requests it receives.
type jdService struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
	uploads  map[string]int

	records []types.JDRecord
}

func newJDService(t *testing.T) (*jdService, *httptest.Server) {
	t.Helper()
	svc := &jdService{
		bodies:  make(map[string][]byte),
		uploads: make(map[string]int),
		records: []types.JDRecord{
			{JDID: "JD-1", Status: types.StatusDraft, JDText: "Draft text", Fields: types.JDFields{Title: "Data Engineer", TeamSize: 2}},
			{JDID: "JD-2", Status: types.StatusApproved, JDText: "Approved text", Fields: types.JDFields{Title: "SRE", TeamSize: 3}},
		},
	}
	srv := httptest.NewServer(svc.routes())
	t.Cleanup(srv.Close)
	return svc, srv
}

func (s *jdService) record(r *http.Request) []byte {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.Method + " " + r.URL.Path
	s.requests = append(s.requests, key)
	s.bodies[key] = body
	return body
}

func (s *jdService) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *jdService) Body(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *jdService) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /jd/templates", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		title, level := "Software Engineer", "Mid"
		writeJSON(w, http.StatusOK, types.Templates{
			"Software Engineer": {Title: &title, Level: &level, MandatorySkills: &[]string{"Go"}},
		})
	})

	mux.HandleFunc("GET /jd/list", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, s.records)
	})

	mux.HandleFunc("GET /jd/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		for _, rec := range s.records {
			if rec.JDID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, rec)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "JD not found"})
	})

	mux.HandleFunc("POST /jd/create", func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateJDRequest
		_ = json.Unmarshal(s.record(r), &req)
		writeJSON(w, http.StatusOK, types.JDRecord{
			JDID:   "JD-NEW",
			Status: types.StatusDraft,
			Fields: req.Fields,
			JDText: "We are hiring a " + req.Fields.Title,
		})
	})

	mux.HandleFunc("POST /jd/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, types.StatusResponse{JDID: r.PathValue("id"), Status: types.StatusApproved})
	})

	mux.HandleFunc("POST /jd/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, types.StatusResponse{JDID: r.PathValue("id"), Status: types.StatusRejected})
	})

	mux.HandleFunc("POST /jd/{id}/regenerate", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, types.JDRecord{JDID: r.PathValue("id"), Status: types.StatusDraft, JDText: "Fresh text"})
	})

	mux.HandleFunc("POST /jd/{id}/update-text", func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateTextRequest
		_ = json.Unmarshal(s.record(r), &req)
		writeJSON(w, http.StatusOK, types.JDRecord{JDID: r.PathValue("id"), Status: types.StatusDraft, JDText: req.JDText})
	})

	mux.HandleFunc("POST /jd/extract/text", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, types.ExtractionResult{
			Fields:           types.JDFields{Title: "ML Engineer", TeamSize: 1},
			ConfidenceScores: map[string]float64{"title": 0.9},
			OriginalText:     r.URL.Query().Get("text"),
		})
	})

	mux.HandleFunc("POST /jd/extract/file", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		s.mu.Lock()
		s.uploads[header.Filename] = len(data)
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, types.ExtractionResult{
			Fields:   types.JDFields{Title: "Analyst", TeamSize: 1},
			FileName: header.Filename,
			FileSize: int64(len(data)),
		})
	})

	mux.HandleFunc("POST /jd/rank-resumes", func(w http.ResponseWriter, r *http.Request) {
		var req types.RankRequest
		_ = json.Unmarshal(s.record(r), &req)
		writeJSON(w, http.StatusOK, types.RankingResponse{
			JDID: req.JDID,
			Results: []types.RankingResult{
				{Rank: 1, ResumeName: "a.pdf", CandidateName: "Asha", Score: 0.91, Status: "High Match", MatchedKeywords: []string{"go"}},
				{Rank: 2, ResumeName: "b.pdf", Score: 0.55, Status: "Medium Match"},
			},
		})
	})

	return mux
}
