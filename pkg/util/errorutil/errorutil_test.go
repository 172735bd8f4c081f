package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	original := NewConflict("exception already exists", map[string]any{"date": "2025-03-03"})
	wrapped := fmt.Errorf("create exception: %w", original)

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "CONFLICT", got.Code)
	assert.Equal(t, http.StatusConflict, got.HTTPStatus)
	assert.Equal(t, "2025-03-03", got.Details["date"])
}

func TestToDomainError_MapsStorageErrors(t *testing.T) {
	notFound := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)

	dup := ToDomainError(&pgconn.PgError{Code: "23505", ConstraintName: "tenants_slug_key"})
	assert.Equal(t, "CONFLICT", dup.Code)

	internal := ToDomainError(errors.New("connection reset"))
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.ErrorContains(t, internal, "connection reset")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(NewNotFound("branch", nil)))
	assert.False(t, IsNotFound(NewForbidden("nope")))
	assert.False(t, IsNotFound(nil))
	assert.Nil(t, ToDomainError(nil))
}
