// Copyright 2026 The Pet Pro Suite Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package apperror defines the error taxonomy shared by every request
// path. Handlers never shape ad hoc error bodies; they return an *Error
// (or something wrapping one) and the HTTP layer serializes it exactly
// once.
package apperror

import (
	"errors"
	"net/http"
)

// Code identifies an error variant. Clients branch on Code; message text
// is not a stability contract.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodePlanLimit    Code = "PLAN_LIMIT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error is the single error shape crossing the HTTP boundary.
type Error struct {
	Code    Code
	Message string
	Field   string // populated for validation/conflict errors when derivable
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the code to its response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodePlanLimit:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Validation reports a caller-fixable input problem on a named field.
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// Unauthorized reports a missing/invalid token or bad credentials.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden reports an authenticated but disallowed action.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// PlanLimit reports a plan feature or numeric-cap denial.
func PlanLimit(message string) *Error {
	return &Error{Code: CodePlanLimit, Message: message}
}

// NotFound reports a missing resource.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Conflict reports a uniqueness violation on a named field.
func Conflict(field, message string) *Error {
	return &Error{Code: CodeConflict, Message: message, Field: field}
}

// Internal wraps an unexpected failure. The cause is logged server-side
// and never leaks to the client.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "erro interno do servidor", cause: cause}
}

// From extracts the *Error from err, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
