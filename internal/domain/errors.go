package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures the caller is expected to handle.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	// KindInternal is reported for anything that is not a *Error.
	KindInternal Kind = "internal"
)

// Storage sentinels, translated to kinds by the service layer.
var (
	ErrRecordNotFound         = errors.New("record not found")
	ErrOverlapConstraint      = errors.New("overlapping booking rejected by storage")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrDuplicate              = errors.New("duplicate record")
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindConflict}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func NewValidation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func NewNotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func NewConflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func NewUnauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NewForbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }

// KindOf returns the taxonomy kind of err, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of a *Error, or a generic one.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
