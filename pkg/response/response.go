// Package response defines the standard JSON envelope and the stable error
// codes surfaced to API clients.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-checkable error codes. Clients branch on these, not on messages.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeAlreadyRegistered    = "ALREADY_REGISTERED"
	CodeTimeUnavailable      = "TIME_UNAVAILABLE"
	CodeNoCapacity           = "NO_CAPACITY"
	CodeDirectoryUnreachable = "DIRECTORY_UNREACHABLE"
	CodeNotFound             = "NOT_FOUND"
	CodeInternal             = "INTERNAL"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail sends an error response with an explicit status and stable code.
func Fail(c *gin.Context, status int, code, err string) {
	c.JSON(status, Body{Success: false, Code: code, Error: err})
}

// BadRequest sends 400 with VALIDATION_ERROR.
func BadRequest(c *gin.Context, err string) {
	Fail(c, http.StatusBadRequest, CodeValidation, err)
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// NotFound sends 404 with NOT_FOUND.
func NotFound(c *gin.Context, err string) {
	Fail(c, http.StatusNotFound, CodeNotFound, err)
}

// Conflict sends 409 with the given code (ALREADY_REGISTERED, NO_CAPACITY, ...).
func Conflict(c *gin.Context, code, err string) {
	Fail(c, http.StatusConflict, code, err)
}

// ServiceUnavailable sends 503 with DIRECTORY_UNREACHABLE.
func ServiceUnavailable(c *gin.Context, err string) {
	Fail(c, http.StatusServiceUnavailable, CodeDirectoryUnreachable, err)
}

// Internal sends 500 with INTERNAL.
func Internal(c *gin.Context, err string) {
	Fail(c, http.StatusInternalServerError, CodeInternal, err)
}
