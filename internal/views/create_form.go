package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jonathan/jd-admin/internal/form"
	"github.com/jonathan/jd-admin/internal/ranking"
	"github.com/jonathan/jd-admin/internal/types"
)

// Mode is how the user supplies JD input.
type Mode string

const (
	ModeManual Mode = "manual"
	ModePaste  Mode = "paste"
	ModeUpload Mode = "upload"
)

// ParseMode returns the mode named by s.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeManual, ModePaste, ModeUpload:
		return m, true
	}
	return "", false
}

// Stage is the position of the creation workflow.
type Stage string

const (
	StageEditing  Stage = "editing-fields"
	StagePreview  Stage = "submitted-preview"
	StageApproved Stage = "approved"
)

// Alert texts shown to the user.
const (
	AlertConfirmFailed = "Failed to confirm JD. Please try again."
	AlertMissingFolder = "Please provide a Google Drive folder URL"
	alertRankPrefix    = "Failed to filter candidates: "
	alertRankFallback  = "Unknown error"
)

// LowConfidence is the score below which an extracted field is flagged.
const LowConfidence = 0.6

// FormBackend is the part of the JD service the creation form calls.
type FormBackend interface {
	Create(ctx context.Context, fields types.JDFields) (*types.JDRecord, error)
	Approve(ctx context.Context, jdID string) (*types.StatusResponse, error)
	ExtractText(ctx context.Context, text string) (*types.ExtractionResult, error)
	ExtractFile(ctx context.Context, filename string, content io.Reader) (*types.ExtractionResult, error)
	Templates(ctx context.Context) (types.Templates, error)
	UpdateText(ctx context.Context, jdID, text string) (*types.JDRecord, error)
	RankResumes(ctx context.Context, jdID, folderURL string) (*types.RankingResponse, error)
}

// Upload is a file chosen for extraction.
type Upload struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Content []byte `json:"-"`
}

// SizeKB formats the upload size in kilobytes with one decimal.
func (u *Upload) SizeKB() string {
	return fmt.Sprintf("%.1f KB", float64(u.Size)/1024)
}

// CreateFormState is a snapshot of the creation form.
type CreateFormState struct {
	Mode       Mode                    `json:"mode"`
	Stage      Stage                   `json:"stage"`
	Templates  types.Templates         `json:"templates,omitempty"`
	Draft      form.Draft              `json:"draft"`
	Errors     map[string]string       `json:"errors,omitempty"`
	PasteText  string                  `json:"paste_text,omitempty"`
	Upload     *Upload                 `json:"upload,omitempty"`
	Extraction *types.ExtractionResult `json:"extraction,omitempty"`
	Result     *types.JDRecord         `json:"result,omitempty"`
	EditedText string                  `json:"edited_text,omitempty"`
	FolderURL  string                  `json:"folder_url,omitempty"`
	Alert      string                  `json:"alert,omitempty"`

	Extracting bool `json:"extracting"`
	Submitting bool `json:"submitting"`
	Confirming bool `json:"confirming"`
	Ranking    bool `json:"ranking"`
}

// TemplateNames returns the loaded template names in sorted order.
func (s CreateFormState) TemplateNames() []string {
	names := make([]string, 0, len(s.Templates))
	for name := range s.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CanRank reports whether the ranking panel applies.
func (s CreateFormState) CanRank() bool {
	return s.Result != nil
}

// CreateForm drives JD creation from input through approval and ranking.
// Busy flags are held across the service call so a second trigger from the
// same control is rejected with ErrBusy rather than queued.
type CreateForm struct {
	mu    sync.Mutex
	state CreateFormState

	api          FormBackend
	logger       zerolog.Logger
	onCreated    func(*types.JDRecord)
	onCandidates func([]types.Candidate)
}

// CreateFormOption configures a CreateForm.
type CreateFormOption func(*CreateForm)

// OnCreated registers a callback for a newly created record.
func OnCreated(fn func(*types.JDRecord)) CreateFormOption {
	return func(f *CreateForm) {
		f.onCreated = fn
	}
}

// OnCandidates registers the receiver of ranked candidates.
func OnCandidates(fn func([]types.Candidate)) CreateFormOption {
	return func(f *CreateForm) {
		f.onCandidates = fn
	}
}

// NewCreateForm returns a form in manual mode at the editing stage.
func NewCreateForm(api FormBackend, logger zerolog.Logger, opts ...CreateFormOption) *CreateForm {
	f := &CreateForm{
		api:    api,
		logger: logger.With().Str("view", "create_form").Logger(),
	}
	f.state = initialFormState(nil)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func initialFormState(templates types.Templates) CreateFormState {
	return CreateFormState{
		Mode:      ModeManual,
		Stage:     StageEditing,
		Templates: templates,
		Errors:    map[string]string{},
	}
}

// Snapshot returns a copy of the current state.
func (f *CreateForm) Snapshot() CreateFormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.state
	s.Errors = make(map[string]string, len(f.state.Errors))
	for k, v := range f.state.Errors {
		s.Errors[k] = v
	}
	if f.state.Upload != nil {
		u := *f.state.Upload
		s.Upload = &u
	}
	if f.state.Result != nil {
		r := *f.state.Result
		s.Result = &r
	}
	return s
}

// Reset starts a new JD. Loaded templates are kept.
func (f *CreateForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = initialFormState(f.state.Templates)
}

// DismissAlert clears the pending alert.
func (f *CreateForm) DismissAlert() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Alert = ""
}

// SelectMode switches input mode. Allowed only before submission.
func (f *CreateForm) SelectMode(mode Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Stage != StageEditing {
		return &StageError{Transition: "select mode", Stage: f.state.Stage}
	}
	f.state.Mode = mode
	return nil
}

// SetField edits one draft field and clears its validation error.
func (f *CreateForm) SetField(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.state.Draft.Set(key, value); err != nil {
		return err
	}
	delete(f.state.Errors, key)
	return nil
}

// LoadTemplates fetches the template catalogue. Failures are logged and the
// previous catalogue is kept.
func (f *CreateForm) LoadTemplates(ctx context.Context) error {
	templates, err := f.api.Templates(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to load templates")
		return err
	}

	f.mu.Lock()
	f.state.Templates = templates
	f.mu.Unlock()
	return nil
}

// ApplyTemplate copies the named template's present fields into the draft.
// It reports false when no such template is loaded.
func (f *CreateForm) ApplyTemplate(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.state.Templates[name]
	if !ok {
		return false
	}
	f.state.Draft.ApplyTemplate(t)
	return true
}

// SetPasteText replaces the raw text used by paste extraction.
func (f *CreateForm) SetPasteText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.PasteText = text
}

// SetUpload stores the file used by upload extraction.
func (f *CreateForm) SetUpload(name string, content []byte) error {
	if !form.AcceptedUpload(name) {
		return &UploadError{Filename: name}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Upload = &Upload{Name: name, Size: int64(len(content)), Content: content}
	return nil
}

// Extract sends the paste text or uploaded file for field extraction and
// populates every draft field from the result. A failed extraction is logged
// and leaves the state unchanged.
func (f *CreateForm) Extract(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Extracting {
		f.mu.Unlock()
		return ErrBusy
	}
	mode := f.state.Mode
	text := f.state.PasteText
	var upload *Upload
	if f.state.Upload != nil {
		u := *f.state.Upload
		upload = &u
	}

	switch mode {
	case ModePaste:
		if strings.TrimSpace(text) == "" {
			f.mu.Unlock()
			return ErrNothingToExtract
		}
	case ModeUpload:
		if upload == nil {
			f.mu.Unlock()
			return ErrNothingToExtract
		}
	default:
		f.mu.Unlock()
		return &ModeError{Transition: "extract", Mode: mode}
	}
	f.state.Extracting = true
	f.mu.Unlock()

	var (
		result *types.ExtractionResult
		err    error
	)
	if mode == ModePaste {
		result, err = f.api.ExtractText(ctx, text)
	} else {
		result, err = f.api.ExtractFile(ctx, upload.Name, bytes.NewReader(upload.Content))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Extracting = false

	if err != nil {
		f.logger.Error().Err(err).Str("mode", string(mode)).Msg("extraction failed")
		return err
	}
	if result.Error != "" {
		f.logger.Warn().Str("error", result.Error).Msg("service fell back to basic extraction")
	}

	f.state.Draft.ApplyFields(result.Fields)
	f.state.Extraction = result
	f.state.Errors = map[string]string{}
	return nil
}

// Submit validates the draft and creates a JD. Invalid drafts record field
// errors and send nothing. On success the form moves to preview with the
// generated text loaded for editing.
func (f *CreateForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Stage != StageEditing {
		stage := f.state.Stage
		f.mu.Unlock()
		return &StageError{Transition: "submit", Stage: stage}
	}
	if f.state.Submitting {
		f.mu.Unlock()
		return ErrBusy
	}

	fields, err := f.state.Draft.BuildFields()
	if err != nil {
		var vErr *types.ValidationError
		if errors.As(err, &vErr) {
			f.state.Errors = vErr.Fields
		}
		f.mu.Unlock()
		return err
	}
	f.state.Errors = map[string]string{}
	f.state.Submitting = true
	f.mu.Unlock()

	record, err := f.api.Create(ctx, fields)

	f.mu.Lock()
	f.state.Submitting = false
	if err != nil {
		f.mu.Unlock()
		f.logger.Error().Err(err).Msg("failed to create JD")
		return err
	}
	f.state.Result = record
	f.state.EditedText = record.JDText
	f.state.Stage = StagePreview
	f.mu.Unlock()

	f.logger.Info().Str("jd_id", record.JDID).Msg("JD created")
	if f.onCreated != nil {
		f.onCreated(record)
	}
	return nil
}

// EditText replaces the working copy of the generated text.
func (f *CreateForm) EditText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Stage != StagePreview {
		return &StageError{Transition: "edit text", Stage: f.state.Stage}
	}
	f.state.EditedText = text
	return nil
}

// Confirm saves edited text when it differs from the stored text, then
// approves the JD. Both calls must succeed to reach the approved stage.
func (f *CreateForm) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Stage != StagePreview {
		stage := f.state.Stage
		f.mu.Unlock()
		return &StageError{Transition: "confirm", Stage: stage}
	}
	if f.state.Confirming {
		f.mu.Unlock()
		return ErrBusy
	}
	jdID := f.state.Result.JDID
	edited := f.state.EditedText
	changed := edited != f.state.Result.JDText
	f.state.Confirming = true
	f.state.Alert = ""
	f.mu.Unlock()

	err := f.confirm(ctx, jdID, edited, changed)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Confirming = false
	if err != nil {
		f.logger.Error().Err(err).Str("jd_id", jdID).Msg("failed to confirm JD")
	}

	if f.state.Result == nil || f.state.Result.JDID != jdID {
		// Form was reset while the call was in flight.
		return err
	}
	if err != nil {
		f.state.Alert = AlertConfirmFailed
		return err
	}
	f.state.Result.Status = types.StatusApproved
	f.state.Stage = StageApproved
	f.logger.Info().Str("jd_id", jdID).Bool("text_updated", changed).Msg("JD approved")
	return nil
}

func (f *CreateForm) confirm(ctx context.Context, jdID, edited string, changed bool) error {
	if changed {
		record, err := f.api.UpdateText(ctx, jdID, edited)
		if err != nil {
			return err
		}

		f.mu.Lock()
		if f.state.Result != nil && f.state.Result.JDID == jdID {
			merged := *record
			merged.JDText = edited
			f.state.Result = &merged
		}
		f.mu.Unlock()
	}

	status, err := f.api.Approve(ctx, jdID)
	if err != nil {
		return err
	}
	if status.Status != types.StatusApproved {
		f.logger.Warn().Str("jd_id", jdID).Str("status", string(status.Status)).Msg("approve returned unexpected status")
	}
	return nil
}

// SetFolderURL replaces the resume folder reference used for ranking.
func (f *CreateForm) SetFolderURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.FolderURL = url
}

// Rank ranks the folder's resumes against the created JD and publishes the
// candidates. On failure an alert is raised and published candidates are
// left alone.
func (f *CreateForm) Rank(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Result == nil {
		f.mu.Unlock()
		return ErrNoRecord
	}
	folder := strings.TrimSpace(f.state.FolderURL)
	if folder == "" {
		f.state.Alert = AlertMissingFolder
		f.mu.Unlock()
		return ErrMissingFolder
	}
	if f.state.Ranking {
		f.mu.Unlock()
		return ErrBusy
	}
	jdID := f.state.Result.JDID
	f.state.Ranking = true
	f.state.Alert = ""
	f.mu.Unlock()

	resp, err := f.api.RankResumes(ctx, jdID, folder)

	f.mu.Lock()
	f.state.Ranking = false
	if err != nil {
		f.state.Alert = alertRankPrefix + failureText(err, alertRankFallback)
		f.mu.Unlock()
		f.logger.Error().Err(err).Str("jd_id", jdID).Msg("failed to rank resumes")
		return err
	}
	f.mu.Unlock()

	candidates := ranking.ToCandidates(jdID, resp.Results)
	f.logger.Info().Str("jd_id", jdID).Int("candidates", len(candidates)).Msg("resumes ranked")
	if f.onCandidates != nil {
		f.onCandidates(candidates)
	}
	return nil
}

// ConfidenceRow is one extracted field's confidence for display.
type ConfidenceRow struct {
	Field   string
	Percent string
	Low     bool
}

// ConfidenceRows lists confidence scores by field name with low scores flagged.
func ConfidenceRows(scores map[string]float64) []ConfidenceRow {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]ConfidenceRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, ConfidenceRow{
			Field:   k,
			Percent: fmt.Sprintf("%.0f%%", scores[k]*100),
			Low:     scores[k] < LowConfidence,
		})
	}
	return rows
}
