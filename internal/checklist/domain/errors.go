package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTarget            = errors.New("invalid target")
	ErrNotAllowed               = errors.New("not allowed")
	ErrNotFound                 = errors.New("not found")
	ErrFrozen                   = errors.New("inspection is completed and frozen")
	ErrIncompleteRequiredFields = errors.New("incomplete required fields")
	ErrAlreadyCompleted         = errors.New("inspection already completed")
	ErrNoTemplatesSelected      = errors.New("no templates selected")
	ErrEmptyInspection          = errors.New("inspection has no sections")
	ErrInvalidValue             = errors.New("invalid value")
	ErrInvalidTemplate          = errors.New("invalid template")

	errLabelRequired = errors.New("label is required")
)

// ItemError ties a failure to the item it concerns.
type ItemError struct {
	Err error
	Ref ItemRef
	// Detail is an optional human readable explanation.
	Detail string
}

func (e *ItemError) Error() string {
	msg := fmt.Sprintf("%v: section=%s item=%s", e.Err, e.Ref.SectionID, e.Ref.ItemID)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func itemError(err error, ref ItemRef, detail string) error {
	return &ItemError{Err: err, Ref: ref, Detail: detail}
}

// IncompleteError lists every required item that blocks completion.
type IncompleteError struct {
	Missing []ItemRef
}

func (e *IncompleteError) Error() string {
	refs := make([]string, 0, len(e.Missing))
	for _, ref := range e.Missing {
		refs = append(refs, ref.String())
	}
	return fmt.Sprintf("%v: %d item(s): %s", ErrIncompleteRequiredFields, len(e.Missing), strings.Join(refs, ", "))
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompleteRequiredFields
}

// TemplateError reports why a template definition was rejected.
type TemplateError struct {
	Reason string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidTemplate, e.Reason)
}

func (e *TemplateError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

func templateErrorf(format string, args ...any) error {
	return &TemplateError{Reason: fmt.Sprintf(format, args...)}
}
