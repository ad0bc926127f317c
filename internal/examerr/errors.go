// Package examerr holds the typed errors shared by the authoring, generation
// and lifecycle services. Callers match them with errors.As or the Is* helpers.
package examerr

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing template, pool, actual or exam entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError reports malformed authoring input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InsufficientFodderError means a pool cannot supply enough distinct distractors.
type InsufficientFodderError struct {
	PoolID   string
	Eligible int
	Required int
}

func (e *InsufficientFodderError) Error() string {
	if e.PoolID == "" {
		return fmt.Sprintf("no fodder pool bound: need %d distractors", e.Required)
	}
	return fmt.Sprintf("fodder pool %s has %d eligible items, need %d", e.PoolID, e.Eligible, e.Required)
}

// IllegalTransitionError is returned when the lifecycle state machine rejects an action.
type IllegalTransitionError struct {
	Entity string
	ID     string
	From   string
	Action string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot %s from status %q", e.Entity, e.ID, e.Action, e.From)
}

// ConsistencyError reports stored content that violates a generation precondition.
type ConsistencyError struct {
	Message string
}

func (e *ConsistencyError) Error() string {
	return e.Message
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func Illegal(entity, id, from, action string) error {
	return &IllegalTransitionError{Entity: entity, ID: id, From: from, Action: action}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsInsufficientFodder(err error) bool {
	var target *InsufficientFodderError
	return errors.As(err, &target)
}

func IsIllegalTransition(err error) bool {
	var target *IllegalTransitionError
	return errors.As(err, &target)
}

func IsConsistency(err error) bool {
	var target *ConsistencyError
	return errors.As(err, &target)
}
