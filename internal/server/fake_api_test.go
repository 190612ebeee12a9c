package server

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jonathan/jd-admin/internal/jdapi"
	"github.com/jonathan/jd-admin/internal/types"
)

// fakeAPI is an in-memory JD service.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	records []types.JDRecord
	nextID  int

	templates types.Templates
	extracted *types.ExtractionResult
	ranked    *types.RankingResponse
	rankErr   error
	listErr   error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		templates: types.Templates{
			"Software Engineer": {Title: strPtr("Software Engineer"), Level: strPtr("Mid")},
			"Data Analyst":      {Title: strPtr("Data Analyst"), MandatorySkills: &[]string{"SQL", "Excel"}},
		},
		extracted: &types.ExtractionResult{
			Fields: types.JDFields{
				Title:           "ML Engineer",
				Level:           "Senior",
				MandatorySkills: []string{"Python", "PyTorch"},
				Location:        "Bengaluru",
				TeamSize:        4,
			},
			ConfidenceScores: map[string]float64{"title": 0.95, "budget": 0.2},
		},
		ranked: &types.RankingResponse{
			Results: []types.RankingResult{
				{Rank: 1, ResumeName: "asha.pdf", CandidateName: "Asha", Score: 0.95, Status: "High Match", MatchedKeywords: []string{"python"}},
				{Rank: 2, ResumeName: "ben.pdf", Score: 0.6, Status: "Medium Match"},
			},
			Note: "Ranked 2 resumes",
		},
	}
}

func strPtr(s string) *string { return &s }

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) CallsTo(prefix string) []string {
	var out []string
	for _, c := range f.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) Create(_ context.Context, fields types.JDFields) (*types.JDRecord, error) {
	f.record("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec := types.JDRecord{
		JDID:   fmt.Sprintf("JD-%d", f.nextID),
		Status: types.StatusDraft,
		Fields: fields,
		JDText: "We are hiring a " + fields.Title,
	}
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeAPI) find(jdID string) *types.JDRecord {
	for i := range f.records {
		if f.records[i].JDID == jdID {
			return &f.records[i]
		}
	}
	return nil
}

func (f *fakeAPI) Approve(_ context.Context, jdID string) (*types.StatusResponse, error) {
	f.record("approve:" + jdID)
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.find(jdID)
	if rec == nil {
		return nil, &jdapi.APIError{Method: "POST", Path: "/jd/" + jdID + "/approve", StatusCode: 404, Detail: "JD not found"}
	}
	rec.Status = types.StatusApproved
	return &types.StatusResponse{JDID: jdID, Status: types.StatusApproved}, nil
}

func (f *fakeAPI) ExtractText(_ context.Context, text string) (*types.ExtractionResult, error) {
	f.record("extract-text")
	out := *f.extracted
	out.OriginalText = text
	return &out, nil
}

func (f *fakeAPI) ExtractFile(_ context.Context, filename string, content io.Reader) (*types.ExtractionResult, error) {
	f.record("extract-file:" + filename)
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	out := *f.extracted
	out.FileName = filename
	out.FileSize = int64(len(data))
	return &out, nil
}

func (f *fakeAPI) Templates(_ context.Context) (types.Templates, error) {
	f.record("templates")
	return f.templates, nil
}

func (f *fakeAPI) List(ctx context.Context) ([]types.JDRecord, error) {
	f.record("list")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]types.JDRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAPI) UpdateText(_ context.Context, jdID, text string) (*types.JDRecord, error) {
	f.record("update-text:" + jdID)
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.find(jdID)
	if rec == nil {
		return nil, &jdapi.APIError{Method: "POST", Path: "/jd/" + jdID + "/update-text", StatusCode: 404, Detail: "JD not found"}
	}
	rec.JDText = text
	out := *rec
	return &out, nil
}

func (f *fakeAPI) RankResumes(_ context.Context, jdID, _ string) (*types.RankingResponse, error) {
	f.record("rank:" + jdID)
	if f.rankErr != nil {
		return nil, f.rankErr
	}
	out := *f.ranked
	out.JDID = jdID
	return &out, nil
}

var apiErr404 = jdapi.APIError{Method: "POST", Path: "/jd/rank", StatusCode: 404, Detail: "folder not found"}
