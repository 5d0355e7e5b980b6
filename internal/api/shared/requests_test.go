package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name"  validate:"required,max=5"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
		wantAny bool
	}{
		{name: "valid", body: `{"name":"home"}`},
		{name: "empty", body: "", wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"name":`, wantAny: true},
		{name: "unknown field", body: `{"name":"x","extra":true}`, wantAny: true},
		{name: "oversized", body: `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, wantAny: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var got sampleRequest
			err := DecodeJSON(req, &got)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.wantAny:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "home", got.Name)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(sampleRequest{Name: "home", Color: "#fff"}))

	err := ValidateRequest(sampleRequest{Name: "toolong", Color: "red"})
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "Name", fieldErrs[0].Field())
	assert.Equal(t, "max", fieldErrs[0].Tag())
	assert.Equal(t, "hexcolor", fieldErrs[1].Tag())
}
