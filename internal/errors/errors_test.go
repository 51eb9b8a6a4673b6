package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "bad body", "unexpected EOF")

	assert.Equal(t, "bad body", err.Error())
	assert.Equal(t, "unexpected EOF", err.Details)

	var target *APIError
	wrapped := stderrors.Join(stderrors.New("context"), err)
	require.True(t, stderrors.As(wrapped, &target))
	assert.Equal(t, "INVALID_REQUEST", target.ErrorCode)
}

func TestFromValidator(t *testing.T) {
	type request struct {
		Strategy   string  `validate:"required,oneof=mean median"`
		ZThreshold float64 `validate:"gt=0"`
	}

	err := validator.New().Struct(request{Strategy: "mode", ZThreshold: -1})
	require.Error(t, err)

	apiErr := FromValidator(err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

	details, ok := apiErr.Details.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 2)
	assert.Equal(t, "request.Strategy", details.Errors[0].Field)
	assert.Equal(t, "must be one of [mean median]", details.Errors[0].Message)
	assert.Equal(t, "must be greater than 0", details.Errors[1].Message)
}

func TestFromValidator_OtherError(t *testing.T) {
	apiErr := FromValidator(stderrors.New("boom"))
	assert.Equal(t, "INVALID_REQUEST", apiErr.ErrorCode)
	assert.Equal(t, "boom", apiErr.Details)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/x").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "abc", got["trace_id"])
	assert.Equal(t, float64(404), got["status"], "extensions never shadow standard members")
	assert.NotContains(t, got, "detail")
	assert.Equal(t, "/x", got["instance"])
}
