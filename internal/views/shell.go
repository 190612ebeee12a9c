package views

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jd-admin/internal/types"
)

// Backend is every JD service call the admin screens make.
type Backend interface {
	FormBackend
	RankingBackend
}

// ShellState is the data the shell passes between screens.
type ShellState struct {
	Generated  *types.JDRecord   `json:"generated,omitempty"`
	Candidates []types.Candidate `json:"candidates"`
}

// Shell composes the screens of one browser session and carries the
// generated JD and candidate list between them.
type Shell struct {
	Form    *CreateForm
	List    *JDList
	Ranking *RankingView
	JDs     *JDStore

	api    Backend
	logger zerolog.Logger

	mu    sync.Mutex
	state ShellState
}

// NewShell wires the screens to api.
func NewShell(api Backend, logger zerolog.Logger) *Shell {
	s := &Shell{
		api:    api,
		logger: logger,
		JDs:    &JDStore{},
		state:  ShellState{Candidates: []types.Candidate{}},
	}
	s.Form = NewCreateForm(api, logger,
		OnCreated(s.setGenerated),
		OnCandidates(s.setCandidates),
	)
	s.List = NewJDList(api, logger, s.RefreshList)
	s.Ranking = NewRankingView(api, logger)
	return s
}

// Init loads the template catalogue and JD list concurrently. A template
// failure is logged by the form and does not fail Init. The two loads are
// independent, so a list failure never cancels the template request.
func (s *Shell) Init(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		_ = s.Form.LoadTemplates(ctx)
		return nil
	})
	g.Go(func() error {
		return s.RefreshList(ctx)
	})

	return g.Wait()
}

// RefreshList reloads the JD list from the service.
func (s *Shell) RefreshList(ctx context.Context) error {
	records, err := s.api.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load JD list")
	}
	s.JDs.set(records, err)
	return err
}

// Snapshot returns a copy of the shared state.
func (s *Shell) Snapshot() ShellState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ShellState{Candidates: make([]types.Candidate, len(s.state.Candidates))}
	copy(out.Candidates, s.state.Candidates)
	if s.state.Generated != nil {
		g := *s.state.Generated
		out.Generated = &g
	}
	return out
}

// EditGenerated replaces the locally displayed generated text. Nothing is
// sent to the service.
func (s *Shell) EditGenerated(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Generated == nil {
		return false
	}
	s.state.Generated.JDText = text
	return true
}

func (s *Shell) setGenerated(record *types.JDRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *record
	s.state.Generated = &r
}

func (s *Shell) setCandidates(candidates []types.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Candidates = candidates
}
