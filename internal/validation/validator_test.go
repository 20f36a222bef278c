package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NYPL-Simplified/circulation-core/internal/errors"
	"github.com/NYPL-Simplified/circulation-core/internal/validation"
)

type subjectInput struct {
	Scheme     string `json:"scheme" validate:"required"`
	Identifier string `json:"identifier" validate:"required,max=512"`
	Weight     int    `json:"weight" validate:"gte=0"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	in := subjectInput{
		Scheme:     "DDC",
		Identifier: "813.54",
		Weight:     1,
	}

	err := v.Validate(in)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		in        subjectInput
		wantField string
	}{
		{
			name: "missing required field",
			in: subjectInput{
				Scheme:     "DDC",
				Identifier: "",
				Weight:     1,
			},
			wantField: "identifier",
		},
		{
			name: "negative weight",
			in: subjectInput{
				Scheme:     "DDC",
				Identifier: "813",
				Weight:     -1,
			},
			wantField: "weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			require.Error(t, err)

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, errors.CodeValidation, domainErr.Code)

			// Details carry per-field messages keyed by JSON tag name.
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			_, present := details[tt.wantField]
			assert.True(t, present, "expected field %q in %v", tt.wantField, details)
		})
	}
}

func TestValidator_UsesJSONTagNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(subjectInput{Scheme: "DDC", Weight: 0})
	require.Error(t, err)

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)

	// JSON tag name "identifier", not struct field name "Identifier".
	_, present := details["identifier"]
	assert.True(t, present)
	_, present = details["Identifier"]
	assert.False(t, present)
}
