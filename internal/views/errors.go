// Package views holds the explicit view models behind each admin screen.
// Every state change goes through a named transition method, so screens can be
// driven and tested without a renderer.
package views

import (
	"errors"
	"fmt"

	"github.com/jonathan/jd-admin/internal/jdapi"
)

var (
	// ErrBusy is returned when the triggering control already has a request in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrNothingToExtract is returned when extraction is asked for without input.
	ErrNothingToExtract = errors.New("nothing to extract")
	// ErrNoRecord is returned by transitions that need a created JD.
	ErrNoRecord = errors.New("no JD has been created")
	// ErrMissingFolder is returned when ranking is asked for without a folder reference.
	ErrMissingFolder = errors.New("folder URL is required")
	// ErrMissingSelection is returned when the ranking view has no JD or folder selected.
	ErrMissingSelection = errors.New("JD and folder URL are required")
)

// StageError is returned when a transition is not allowed in the current stage.
type StageError struct {
	Transition string
	Stage      Stage
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s is not allowed in stage %s", e.Transition, e.Stage)
}

// ModeError is returned when a transition does not apply to the current input mode.
type ModeError struct {
	Transition string
	Mode       Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("%s is not available in %s mode", e.Transition, e.Mode)
}

// UploadError is returned for a file outside the accepted document types.
type UploadError struct {
	Filename string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("unsupported file type: %s (accepted: .pdf, .docx)", e.Filename)
}

// failureText picks the message shown for a failed request: server detail
// first, then the error text, then fallback.
func failureText(err error, fallback string) string {
	if detail := jdapi.Detail(err); detail != "" {
		return detail
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
