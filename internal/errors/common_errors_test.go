package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    &AppError{Type: ErrTypeFetch, Message: "workbook request failed"},
			wantMessage: "[FETCH] workbook request failed",
		},
		{
			name:        "error with cause",
			appError:    &AppError{Type: ErrTypeParsing, Message: "invalid workbook", Cause: fmt.Errorf("zip: not a valid zip file")},
			wantMessage: "[PARSING] invalid workbook: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError("workbook request failed", cause)

	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewFetchError("unexpected status", nil).
		WithContext("status", 404).
		WithContext("url", "https://example.com/coq.xlsx")

	assert.Equal(t, 404, err.Context["status"])
	assert.Equal(t, "https://example.com/coq.xlsx", err.Context["url"])

	bare := &AppError{Type: ErrTypeSchema}
	bare.WithContext("sheet", "Sheet1")
	require.NotNil(t, bare.Context)
	assert.Equal(t, "Sheet1", bare.Context["sheet"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"fetch", NewFetchError("m", cause), ErrTypeFetch},
		{"network", NewNetworkError("m", cause), ErrTypeNetwork},
		{"parsing", NewParsingError("m", cause), ErrTypeParsing},
		{"schema", NewSchemaError("m", cause), ErrTypeSchema},
		{"validation", NewAppValidationError("m"), ErrTypeValidation},
		{"not found", NewNotFoundError("sheet"), ErrTypeNotFound},
		{"config", NewConfigError("m", cause), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}

	assert.Equal(t, "sheet not found", NewNotFoundError("sheet").Message)
}

func TestTypePredicates(t *testing.T) {
	fetch := fmt.Errorf("load overview: %w", NewFetchError("unreachable", nil))
	parse := fmt.Errorf("load overview: %w", NewParsingError("bad bytes", nil))
	schema := fmt.Errorf("bind: %w", NewSchemaError("mismatch", &MissingColumnError{Sheet: "Sheet1", Field: "month", Column: "MONTH"}))

	assert.True(t, IsFetch(fetch))
	assert.False(t, IsFetch(parse))
	assert.True(t, IsParsing(parse))
	assert.True(t, IsSchema(schema))
	assert.False(t, IsNetwork(schema))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestMissingColumnError(t *testing.T) {
	err := NewSchemaError("sheet does not match mapping", &MissingColumnError{
		Sheet:  "Sheet1",
		Field:  "prevention",
		Column: "Prevention_Ratio",
	})

	var colErr *MissingColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Prevention_Ratio", colErr.Column)
	assert.Contains(t, err.Error(), `column "Prevention_Ratio"`)
	assert.Contains(t, err.Error(), `sheet "Sheet1"`)
}

func TestMissingSheetError(t *testing.T) {
	err := &MissingSheetError{Sheet: "Sheet4"}
	assert.Equal(t, `sheet "Sheet4" not found in workbook`, err.Error())
}
