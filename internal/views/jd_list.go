package views

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/jd-admin/internal/types"
)

// Approver approves a JD by id.
type Approver interface {
	Approve(ctx context.Context, jdID string) (*types.StatusResponse, error)
}

// JDList renders records supplied by its parent. It keeps no copy of its
// own; after an approval the parent is asked to reload.
type JDList struct {
	api       Approver
	logger    zerolog.Logger
	onApprove func(ctx context.Context) error
}

// NewJDList returns a list whose approvals call refresh on success.
func NewJDList(api Approver, logger zerolog.Logger, refresh func(ctx context.Context) error) *JDList {
	return &JDList{
		api:       api,
		logger:    logger.With().Str("view", "jd_list").Logger(),
		onApprove: refresh,
	}
}

// JDRow is one record as displayed in the list.
type JDRow struct {
	JDID       string
	Title      string
	Level      string
	Location   string
	Status     types.Status
	Excerpt    string
	CanApprove bool
}

// excerptLen is the number of characters of JD text shown per row.
const excerptLen = 200

// Rows projects records into display rows in the given order.
func (l *JDList) Rows(records []types.JDRecord) []JDRow {
	rows := make([]JDRow, 0, len(records))
	for _, r := range records {
		excerpt := r.JDText
		if runes := []rune(excerpt); len(runes) > excerptLen {
			excerpt = string(runes[:excerptLen]) + "..."
		}
		rows = append(rows, JDRow{
			JDID:       r.JDID,
			Title:      r.Fields.Title,
			Level:      r.Fields.Level,
			Location:   r.Fields.Location,
			Status:     r.Status,
			Excerpt:    excerpt,
			CanApprove: r.Status == types.StatusDraft,
		})
	}
	return rows
}

// Approve approves jdID and then asks the parent to reload. The list itself
// is not changed. Repeat clicks each send a request.
func (l *JDList) Approve(ctx context.Context, jdID string) error {
	if _, err := l.api.Approve(ctx, jdID); err != nil {
		l.logger.Error().Err(err).Str("jd_id", jdID).Msg("failed to approve JD")
		return err
	}
	l.logger.Info().Str("jd_id", jdID).Msg("JD approved")

	if l.onApprove == nil {
		return nil
	}
	return l.onApprove(ctx)
}

// JDStore holds the record list shared by the list view and its parent.
type JDStore struct {
	mu      sync.RWMutex
	records []types.JDRecord
	err     error
}

// Records returns the last loaded records and load error.
func (s *JDStore) Records() ([]types.JDRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.JDRecord, len(s.records))
	copy(out, s.records)
	return out, s.err
}

func (s *JDStore) set(records []types.JDRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.records = records
	}
	s.err = err
}
