package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Code: "not_found", Message: "post not found", StatusCode: 404}
	assert.Equal(t, "[404] not_found: post not found", err.Error())

	withDetails := &APIError{
		Code:       "validation_failed",
		Message:    "bad input",
		StatusCode: 422,
		Details:    map[string]interface{}{"field": "body"},
	}
	assert.Contains(t, withDetails.Error(), "details:")
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: 401}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: 404}))
	assert.False(t, IsUnauthorized(errors.New("plain")))

	assert.True(t, IsNotFound(&APIError{StatusCode: 404}))
	assert.False(t, IsNotFound(&APIError{StatusCode: 500}))

	assert.True(t, IsServerError(&APIError{StatusCode: 500}))
	assert.True(t, IsServerError(&APIError{StatusCode: 503}))
	assert.False(t, IsServerError(&APIError{StatusCode: 400}))
}
