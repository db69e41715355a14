package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/stride/internal/core/credential"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"string detail", `{"detail":"Activity not found"}`, "Activity not found"},
		{
			"field errors",
			`{"detail":[{"loc":["body","distance"],"msg":"field required"},{"loc":["body","items",0],"msg":"bad"}]}`,
			"distance: field required; items.0: bad",
		},
		{"message key", `{"message":"nope"}`, "nope"},
		{"error key", `{"error":"broken"}`, "broken"},
		{"plain text", "Internal Server Error", "Internal Server Error"},
		{"unknown json", `{"foo":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse([]byte(tt.body)).String())
		})
	}
}

func TestMessage(t *testing.T) {
	const fallback = "Failed to create activity."

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing credential", fmt.Errorf("create: %w", credential.ErrMissing), MsgNotAuthenticated},
		{"api string", &Error{Status: 400, Desc: Description{Message: "Invalid file"}}, "Invalid file"},
		{
			"api fields",
			fmt.Errorf("wrapped: %w", &Error{Status: 422, Desc: Description{Fields: []FieldIssue{{Field: "start", Message: "invalid"}}}}),
			"start: invalid",
		},
		{"api empty", &Error{Status: 500}, fallback},
		{"transport", errors.New("dial tcp: refused"), fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err, fallback))
		})
	}
}

func TestError_UnwrapFieldErrors(t *testing.T) {
	err := fmt.Errorf("update: %w", &Error{
		Status: 422,
		Desc:   Description{Fields: []FieldIssue{{Field: "distance", Message: "must be positive"}}},
	})

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Equal(t, "distance", fieldErrs[0].Field)

	plain := &Error{Status: 500, Desc: Description{Message: "boom"}}
	assert.False(t, errors.As(plain, &fieldErrs))
	assert.Contains(t, plain.Error(), "status 500")
}
