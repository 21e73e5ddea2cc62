// Package mcpserver exposes indexing and retrieval operations to an outer
// process over the Model Context Protocol, enforcing the tool-boundary
// validation rules named in §6.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	amerrors "github.com/aman-cerp/semindex/internal/errors"
)

// JSON-RPC and tool-specific error codes.
const (
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
	ErrCodeMethodNotFound = -32601
	ErrCodeTimeout        = -32003
	ErrCodeRepoNotFound   = -32001
	ErrCodeValidation     = -32602
)

// ErrRepoNotFound indicates the requested repository has not been indexed.
var ErrRepoNotFound = errors.New("repository not found")

// ValidationError reports a single rejected tool parameter (§6, §8 scenario 6).
type ValidationError struct {
	Parameter string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Parameter, e.Message)
}

// MCPError is the JSON-RPC-shaped error surfaced to the calling tool client.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("mcp error %d: %s", e.Code, e.Message)
}

// NewInvalidParamsError builds an MCPError for a rejected parameter.
func NewInvalidParamsError(message string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: message}
}

// MapError converts an internal error into an MCPError. Validation errors
// map to the validation code and any AmanError to the internal-error code
// (its category is not consulted); other errors map by sentinel.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return &MCPError{Code: ErrCodeValidation, Message: valErr.Error()}
	}

	var amanErr *amerrors.AmanError
	if errors.As(err, &amanErr) {
		return &MCPError{Code: ErrCodeInternalError, Message: amanErr.Error()}
	}

	switch {
	case errors.Is(err, ErrRepoNotFound):
		return &MCPError{Code: ErrCodeRepoNotFound, Message: "repository not found; index it first"}
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "request timed out"}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "request was canceled"}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: err.Error()}
	}
}
