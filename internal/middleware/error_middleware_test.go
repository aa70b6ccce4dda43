package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
)

func runHandleAPIError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/test", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, string(dto.ErrorCodeInvalidCredentials)},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, string(dto.ErrorCodeExpiredToken)},
		{"not owned", apperrors.ErrQuestionNotOwned, http.StatusForbidden, string(dto.ErrorCodeForbidden)},
		{"question missing", apperrors.ErrQuestionNotFound, http.StatusNotFound, string(dto.ErrorCodeResourceNotFound)},
		{"department missing", apperrors.ErrDepartmentNotFound, http.StatusNotFound, string(dto.ErrorCodeResourceNotFound)},
		{"email taken", apperrors.ErrEmailAlreadyExists, http.StatusConflict, string(dto.ErrorCodeResourceAlreadyExists)},
		{"illegal status change", apperrors.ErrInvalidStatusChange, http.StatusConflict, string(dto.ErrorCodeInvalidStatusChange)},
		{"merge into itself", apperrors.ErrMergeIntoSameEntity, http.StatusBadRequest, string(dto.ErrorCodeValidationFailed)},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError, string(dto.ErrorCodeInternalServer)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := runHandleAPIError(t, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, string(body.Error.Code))
		})
	}
}

func TestHandleAPIErrorConstraintViolations(t *testing.T) {
	// A create that loses the race against a concurrent insert slips past
	// the uniqueness probe; the index violation must come back as a
	// conflict, not a server fault.
	uniqueErr := fmt.Errorf("error creating department: %w",
		&pgconn.PgError{Code: "23505", ConstraintName: "departments_lower_name_key"})
	rec, body := runHandleAPIError(t, uniqueErr)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, string(dto.ErrorCodeResourceAlreadyExists), string(body.Error.Code))

	fkErr := fmt.Errorf("error deleting department: %w", &pgconn.PgError{Code: "23503"})
	rec, body = runHandleAPIError(t, fkErr)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, string(dto.ErrorCodeResourceInUse), string(body.Error.Code))
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	rec, _ := runHandleAPIError(t, fmt.Errorf("loading question: %w", apperrors.ErrQuestionNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAPIErrorSurfacesCustomMessage(t *testing.T) {
	rec, body := runHandleAPIError(t, apperrors.NewBadRequestError("only PDF uploads are accepted"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "only PDF uploads are accepted", body.Error.Message)
}
