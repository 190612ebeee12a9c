package views

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/jd-admin/internal/jdapi"
	"github.com/jonathan/jd-admin/internal/ranking"
	"github.com/jonathan/jd-admin/internal/types"
)

// Ranking view messages.
const (
	ErrTextMissingSelection = "Please select a JD and provide a Drive folder URL"
	ErrTextLoadFailed       = "Failed to load JDs"
	errTextRankFallback     = "Failed to rank resumes"
)

// RankingBackend is the part of the JD service the ranking view calls.
type RankingBackend interface {
	List(ctx context.Context) ([]types.JDRecord, error)
	RankResumes(ctx context.Context, jdID, folderURL string) (*types.RankingResponse, error)
}

// RankingViewState is a snapshot of the ranking view.
type RankingViewState struct {
	JDs        []types.JDRecord       `json:"jds"`
	Loaded     bool                   `json:"loaded"`
	SelectedJD string                 `json:"selected_jd,omitempty"`
	FolderURL  string                 `json:"folder_url,omitempty"`
	Results    *types.RankingResponse `json:"results,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Loading    bool                   `json:"loading"`
}

// RankingRow is one ranked resume as displayed.
type RankingRow struct {
	Rank            int
	ResumeName      string
	CandidateName   string
	Percent         string
	Level           types.MatchLevel
	RoleCategory    string
	MatchedKeywords []string
}

// Rows returns the display rows of the current results.
func (s RankingViewState) Rows() []RankingRow {
	if s.Results == nil {
		return nil
	}
	rows := make([]RankingRow, 0, len(s.Results.Results))
	for _, r := range s.Results.Results {
		rows = append(rows, RankingRow{
			Rank:            r.Rank,
			ResumeName:      r.ResumeName,
			CandidateName:   r.CandidateName,
			Percent:         ranking.Percent(r.Score),
			Level:           ranking.Classify(r.Score),
			RoleCategory:    r.RoleCategory,
			MatchedKeywords: r.MatchedKeywords,
		})
	}
	return rows
}

// RankingView ranks a folder of resumes against a JD picked from the list.
type RankingView struct {
	mu    sync.Mutex
	state RankingViewState

	api    RankingBackend
	logger zerolog.Logger
}

// NewRankingView returns an empty ranking view.
func NewRankingView(api RankingBackend, logger zerolog.Logger) *RankingView {
	return &RankingView{
		api:    api,
		logger: logger.With().Str("view", "ranking").Logger(),
	}
}

// Snapshot returns a copy of the current state.
func (v *RankingView) Snapshot() RankingViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.JDs = make([]types.JDRecord, len(v.state.JDs))
	copy(s.JDs, v.state.JDs)
	return s
}

// Load fetches the JD list on first use. Later calls do nothing.
func (v *RankingView) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.state.Loaded {
		v.mu.Unlock()
		return nil
	}
	v.state.Loaded = true
	v.mu.Unlock()

	records, err := v.api.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.logger.Error().Err(err).Msg("failed to load JDs")
		v.state.Error = ErrTextLoadFailed
		return err
	}
	v.state.JDs = records
	return nil
}

// Select picks the JD to rank against.
func (v *RankingView) Select(jdID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SelectedJD = jdID
}

// SetFolderURL replaces the resume folder reference.
func (v *RankingView) SetFolderURL(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.FolderURL = url
}

// Submit ranks the selected JD. Previous results and errors are cleared
// before the call; a failure is shown inline.
func (v *RankingView) Submit(ctx context.Context) error {
	v.mu.Lock()
	jdID := v.state.SelectedJD
	folder := strings.TrimSpace(v.state.FolderURL)
	if jdID == "" || folder == "" {
		v.state.Error = ErrTextMissingSelection
		v.mu.Unlock()
		return ErrMissingSelection
	}
	if v.state.Loading {
		v.mu.Unlock()
		return ErrBusy
	}
	v.state.Loading = true
	v.state.Error = ""
	v.state.Results = nil
	v.mu.Unlock()

	resp, err := v.api.RankResumes(ctx, jdID, folder)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = false
	if err != nil {
		v.logger.Error().Err(err).Str("jd_id", jdID).Msg("failed to rank resumes")
		v.state.Error = errTextRankFallback
		if detail := jdapi.Detail(err); detail != "" {
			v.state.Error = detail
		}
		return err
	}
	v.state.Results = resp
	return nil
}
