package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorStatusClasses(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewError(CodeNotFound, "x").HTTPStatus)
	assert.Equal(t, http.StatusForbidden, NewError(CodeUnauthorized, "x").HTTPStatus)
	assert.Equal(t, http.StatusUnprocessableEntity, NewError(CodeShopNotReady, "x").HTTPStatus)
	assert.Equal(t, http.StatusUnprocessableEntity, NewError(CodeInventoryNotAvailable, "x").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, Unexpected("boom").HTTPStatus)
}

func TestErrorIsServerError(t *testing.T) {
	assert.False(t, NewError(CodeInvalidState, "x").IsServerError())
	assert.True(t, Unexpected("boom").IsServerError())
}

func TestErrorMessageJoining(t *testing.T) {
	err := NewError(CodeInventoryNotAvailable, "first", "second")
	assert.Equal(t, "first; second", err.Error())
	assert.Len(t, err.Messages, 2)
}

func TestAsErrorUnwrapsChains(t *testing.T) {
	inner := NewError(CodeInsufficientStock, "no stock")
	wrapped := fmt.Errorf("transaction failed: %w", inner)

	e, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, e.Code)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}
