package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLabel  = errors.New("invalid label")
	ErrEmptyGroup    = errors.New("no records to group")
	ErrMissingColumn = errors.New("missing column")
	ErrGeneration    = errors.New("generation failed")
)

// InvalidLabelError reports labels outside {0,1} or label sequences of
// different lengths.
type InvalidLabelError struct {
	Index  int
	Value  string
	Reason string
}

func (e *InvalidLabelError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid label: %s", e.Reason)
	}
	return fmt.Sprintf("invalid label %q at index %d: must be 0 or 1", e.Value, e.Index)
}

func (e *InvalidLabelError) Is(target error) bool {
	return target == ErrInvalidLabel
}

// EmptyGroupError is returned when a group table is requested for zero records.
type EmptyGroupError struct {
	Attribute GroupKey
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("cannot group by %q: input has no records", e.Attribute)
}

func (e *EmptyGroupError) Is(target error) bool {
	return target == ErrEmptyGroup
}

// MissingColumnError lists every expected column an external table lacks.
type MissingColumnError struct {
	Source  string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("missing columns: %s", strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("%s: missing columns: %s", e.Source, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// GenerationFailure wraps any language model failure for one pipeline stage.
type GenerationFailure struct {
	Role AgentRole
	Err  error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Role, e.Err)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}

func (e *GenerationFailure) Is(target error) bool {
	return target == ErrGeneration
}
