package core

import (
	"errors"
	"fmt"
)

// ErrEmptyResult reports that the completion service answered but produced
// no usable email text.
var ErrEmptyResult = errors.New("completion service returned an empty result")

// InvalidInputError marks a request field the caller must fix before the
// action can run. Nothing is fetched or generated once one is raised.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientContentError reports that a page was fetched but yielded too
// little text to describe the business.
type InsufficientContentError struct {
	Chars int
	Min   int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("extracted %d chars of business text, need at least %d", e.Chars, e.Min)
}
