package views

import (
	"context"
	"io"
	"sync"

	"github.com/jonathan/jd-admin/internal/types"
)

// mockBackend records every call in order and returns canned responses.
type mockBackend struct {
	mu    sync.Mutex
	calls []string

	createFn     func(types.JDFields) (*types.JDRecord, error)
	approveFn    func(string) (*types.StatusResponse, error)
	extractFn    func(string) (*types.ExtractionResult, error)
	extractFile  func(string, []byte) (*types.ExtractionResult, error)
	templatesFn  func() (types.Templates, error)
	listFn       func() ([]types.JDRecord, error)
	updateTextFn func(string, string) (*types.JDRecord, error)
	rankFn       func(string, string) (*types.RankingResponse, error)

	// block, when set, is received from before a rank call returns
	block chan struct{}
}

func (m *mockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockBackend) Create(_ context.Context, fields types.JDFields) (*types.JDRecord, error) {
	m.record("create")
	if m.createFn != nil {
		return m.createFn(fields)
	}
	return &types.JDRecord{JDID: "JD-1", Status: types.StatusDraft, Fields: fields, JDText: "Generated JD"}, nil
}

func (m *mockBackend) Approve(_ context.Context, jdID string) (*types.StatusResponse, error) {
	m.record("approve:" + jdID)
	if m.approveFn != nil {
		return m.approveFn(jdID)
	}
	return &types.StatusResponse{JDID: jdID, Status: types.StatusApproved}, nil
}

func (m *mockBackend) ExtractText(_ context.Context, text string) (*types.ExtractionResult, error) {
	m.record("extract-text")
	if m.extractFn != nil {
		return m.extractFn(text)
	}
	return &types.ExtractionResult{}, nil
}

func (m *mockBackend) ExtractFile(_ context.Context, filename string, content io.Reader) (*types.ExtractionResult, error) {
	m.record("extract-file:" + filename)
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	if m.extractFile != nil {
		return m.extractFile(filename, data)
	}
	return &types.ExtractionResult{FileName: filename, FileSize: int64(len(data))}, nil
}

func (m *mockBackend) Templates(_ context.Context) (types.Templates, error) {
	m.record("templates")
	if m.templatesFn != nil {
		return m.templatesFn()
	}
	return types.Templates{}, nil
}

func (m *mockBackend) List(_ context.Context) ([]types.JDRecord, error) {
	m.record("list")
	if m.listFn != nil {
		return m.listFn()
	}
	return []types.JDRecord{}, nil
}

func (m *mockBackend) UpdateText(_ context.Context, jdID, text string) (*types.JDRecord, error) {
	m.record("update-text:" + jdID)
	if m.updateTextFn != nil {
		return m.updateTextFn(jdID, text)
	}
	return &types.JDRecord{JDID: jdID, Status: types.StatusDraft, JDText: text}, nil
}

func (m *mockBackend) RankResumes(_ context.Context, jdID, folderURL string) (*types.RankingResponse, error) {
	m.record("rank:" + jdID)
	if m.block != nil {
		<-m.block
	}
	if m.rankFn != nil {
		return m.rankFn(jdID, folderURL)
	}
	return &types.RankingResponse{JDID: jdID, Results: []types.RankingResult{}}, nil
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func listPtr(items ...string) *[]string { return &items }
