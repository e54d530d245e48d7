package common

import (
	"errors"
	"fmt"
)

// RejectReason names a business rule that refused a repost.
type RejectReason string

const (
	AlreadyReposted RejectReason = "already_reposted"
	SelfRepost      RejectReason = "self_repost"
)

var rejectMessages = map[RejectReason]string{
	AlreadyReposted: "you have already reposted this fun",
	SelfRepost:      "you can't repost your own fun",
}

// ValidationError reports missing or malformed input. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type RejectedError struct {
	Reason RejectReason
}

func (e *RejectedError) Error() string {
	if msg, ok := rejectMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

func NewRejectedError(reason RejectReason) *RejectedError {
	return &RejectedError{Reason: reason}
}

type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError means the acting user may not change the resource.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return "only the owner can " + e.Action + " this fun"
}

func NewForbiddenError(action string) *ForbiddenError {
	return &ForbiddenError{Action: action}
}

// ConflictError means a write lost the race on a unique constraint.
type ConflictError struct {
	Resource string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %v", e.Resource, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func NewConflictError(resource string, err error) *ConflictError {
	return &ConflictError{Resource: resource, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsRejected reports whether err is a RejectedError with the given reason.
func IsRejected(err error, reason RejectReason) bool {
	var target *RejectedError
	return errors.As(err, &target) && target.Reason == reason
}
