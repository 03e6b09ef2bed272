// Package testutil provides testing utilities for jiraexport.
//
// This package contains mock errors and an in-memory tracker used across
// test files. It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockNotFound indicates a mock resource was not found (used in tests).
	ErrMockNotFound = errors.New("not found")

	// ErrMockNetwork indicates a mock network error occurred (used in tests).
	ErrMockNetwork = errors.New("network error")

	// ErrMockUnauthorized indicates a mock tracker rejected the credentials (used in tests).
	ErrMockUnauthorized = errors.New("unauthorized")
)
