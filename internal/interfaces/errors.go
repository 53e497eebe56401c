package interfaces

import "errors"

// Sentinel errors shared across job store implementations
var (
	// ErrJobNotFound is returned when a job id is unknown
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition is returned when a status update would move
	// a job backward or out of a terminal state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrReportAlreadySaved is returned when a second report is saved
	// for the same job
	ErrReportAlreadySaved = errors.New("report already saved")
)
