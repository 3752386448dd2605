package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrTraining      = errors.New("training error")
	ErrNotFitted     = errors.New("pipeline not fitted")
	ErrArtifact      = errors.New("model artifact unavailable")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyTrainingSet is also an ErrTraining.
	ErrEmptyTrainingSet = fmt.Errorf("%w: empty training set", ErrTraining)
)
