package attendance

import "errors"

// Input errors. The action is aborted with no state change.
var (
	ErrBlankClassName  = errors.New("class name cannot be empty")
	ErrBlankStudent    = errors.New("student name and roll cannot be empty")
	ErrDuplicateRoll   = errors.New("roll already exists in this class")
	ErrDuplicateClass  = errors.New("class ID already exists")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidStatus   = errors.New("status must be Present or Absent")
	ErrDateNotSelected = errors.New("date is not in the current selection")
)

// Lookup errors.
var (
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrNoActiveClass   = errors.New("no class selected")
)

// ErrNotConfirmed is returned by destructive actions called without confirmation.
var ErrNotConfirmed = errors.New("action requires confirmation")
