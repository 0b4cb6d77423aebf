// Copyright 2025 OntoView Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package errkind provides the typed error-kind taxonomy shared across the
// loader, import resolver, and hub service (see spec §7). Every fallible
// core operation returns an error that satisfies Kinded, so callers can
// switch on Kind() instead of matching strings.
package errkind

import (
	"errors"
	"fmt"
)

// Kind names one entry of the error taxonomy. String constants are used
// instead of an int enum so log lines and JSON error payloads stay
// self-describing without a lookup table.
type Kind string

const (
	// I/O
	FileNotFound    Kind = "file_not_found"
	PermissionDenied Kind = "permission_denied"
	IoError         Kind = "io_error"

	// Safety
	SymlinkRejected  Kind = "symlink_rejected"
	UnauthorizedPath Kind = "unauthorized_path"
	FileTooLarge     Kind = "file_too_large"
	NotARegularFile  Kind = "not_a_regular_file"

	// Parse
	ParseError Kind = "parse_error"

	// Import graph
	CircularDependency     Kind = "circular_dependency"
	MaxDepthExceeded       Kind = "max_depth_exceeded"
	TooManyTotalImports    Kind = "too_many_total_imports"
	TooManyImportsInOntology Kind = "too_many_imports_in_ontology"

	// Configuration
	SetNotFound     Kind = "set_not_found"
	VersionNotFound Kind = "version_not_found"
	ConfigError     Kind = "config_error"

	// Cache
	NotLoaded Kind = "not_loaded"

	// Resolve
	IriNotFound Kind = "iri_not_found"
)

// Kinded is implemented by every error value the core surfaces.
type Kinded interface {
	error
	Kind() Kind
}

// Error is the concrete error type used across the hub. Detail carries
// full, unredacted context for logs; Public carries the end-user-safe
// message (no absolute paths) per spec §7 sanitization rules. Error()
// always reports Detail; PublicMessage() falls back to the kind name when
// Public is empty.
type Error struct {
	kind    Kind
	Detail  string
	Public  string
	wrapped error
}

// New creates an Error of the given kind with a detail message.
func New(kind Kind, detail string) *Error {
	return &Error{kind: kind, Detail: detail}
}

// Newf creates an Error of the given kind with a formatted detail message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that wraps an underlying error
// for errors.Is/errors.As.
func Wrap(kind Kind, err error, detail string) *Error {
	return &Error{kind: kind, Detail: detail, wrapped: err}
}

// WithPublic sets the sanitized, user-facing message and returns the
// receiver for chaining.
func (e *Error) WithPublic(public string) *Error {
	e.Public = public
	return e
}

// Kind reports which taxonomy entry this error belongs to.
func (e *Error) Kind() Kind { return e.kind }

// Error implements the error interface using the unredacted detail.
func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.Detail, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Detail)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error { return e.wrapped }

// PublicMessage returns the sanitized message suitable for end users,
// falling back to a generic per-kind message when none was set.
func (e *Error) PublicMessage() string {
	if e.Public != "" {
		return e.Public
	}
	return string(e.kind)
}

// OfKind reports whether the first *Error found in err's chain is of the
// given kind. *Error values nested beneath that first one are not
// examined.
func OfKind(err error, kind Kind) bool {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind() == kind
	}
	return false
}
