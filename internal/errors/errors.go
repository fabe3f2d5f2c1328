package errors

import (
	"errors"
	"fmt"
)

// Is reports whether any error in err's chain matches target. It forwards to
// the standard library so callers need only this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Sentinel errors for common error conditions
var (
	// ErrDatasetNotFound is returned when a dataset is not found
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrDatasetAlreadyExists is returned when trying to create a dataset that already exists
	ErrDatasetAlreadyExists = errors.New("dataset already exists")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidParameter is returned when a join parameter fails validation
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// DatasetNotFoundError represents a dataset not found error with context
type DatasetNotFoundError struct {
	DatasetName string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("dataset named '%s' not found", e.DatasetName)
}

func (e *DatasetNotFoundError) Is(target error) bool {
	return target == ErrDatasetNotFound
}

// NewDatasetNotFoundError creates a new DatasetNotFoundError
func NewDatasetNotFoundError(datasetName string) *DatasetNotFoundError {
	return &DatasetNotFoundError{DatasetName: datasetName}
}

// DatasetAlreadyExistsError represents a dataset already exists error with context
type DatasetAlreadyExistsError struct {
	DatasetName string
}

func (e *DatasetAlreadyExistsError) Error() string {
	return fmt.Sprintf("dataset named '%s' already exists", e.DatasetName)
}

func (e *DatasetAlreadyExistsError) Is(target error) bool {
	return target == ErrDatasetAlreadyExists
}

// NewDatasetAlreadyExistsError creates a new DatasetAlreadyExistsError
func NewDatasetAlreadyExistsError(datasetName string) *DatasetAlreadyExistsError {
	return &DatasetAlreadyExistsError{DatasetName: datasetName}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// InvalidParameterError reports a join parameter that failed validation,
// e.g. a non-positive q-gram length or a negative edit-distance threshold.
type InvalidParameterError struct {
	Parameter string
	Message   string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter '%s': %s", e.Parameter, e.Message)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// NewInvalidParameterError creates a new InvalidParameterError
func NewInvalidParameterError(parameter, message string) *InvalidParameterError {
	return &InvalidParameterError{Parameter: parameter, Message: message}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
