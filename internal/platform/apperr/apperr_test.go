// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shici/internal/platform/apperr"
)

/*
TestConstructors pins the status and code of every error kind.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Tag"), http.StatusNotFound, apperr.CodeNotFound},
		{"unauthorized", apperr.Unauthorized("Invalid token"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"conflict", apperr.Conflict("Tag already exists"), http.StatusConflict, apperr.CodeConflict},
		{"validation", apperr.ValidationError("Validation failed"), http.StatusBadRequest, apperr.CodeValidation},
		{"rate_limited", apperr.RateLimited(30), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"unprocessable", apperr.Unprocessable("bad"), http.StatusUnprocessableEntity, apperr.CodeUnprocessable},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}

	assert.Equal(t, "Tag not found", apperr.NotFound("Tag").Error())
	assert.Contains(t, apperr.RateLimited(30).Message, "30s")
}

/*
TestInternal_HidesCause keeps the cause reachable but out of the message.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("relation poetry.tag does not exist")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "poetry.tag")
	assert.ErrorIs(t, err, cause)
}

/*
TestAs_ThroughWrapping finds the AppError in a wrapped chain.
*/
func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", apperr.NotFound("Tag"))

	ae := apperr.As(wrapped)
	if assert.NotNil(t, ae) {
		assert.Equal(t, apperr.CodeNotFound, ae.Code)
	}
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeNotFound))
	assert.False(t, apperr.HasCode(wrapped, apperr.CodeConflict))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestIs_ComparesCode lets errors.Is match by code.
*/
func TestIs_ComparesCode(t *testing.T) {
	err := fmt.Errorf("delete: %w", apperr.NotFound("Tag"))

	assert.ErrorIs(t, err, apperr.NotFound("Poem"))
	assert.NotErrorIs(t, err, apperr.Unauthorized("x"))
}
