package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onboard/pkg/domain-errors"
)

func TestNewWorkflowID(t *testing.T) {
	a, b := NewWorkflowID(), NewWorkflowID()
	assert.False(t, a.IsNil())
	assert.NotEqual(t, a, b)
	assert.Len(t, a.String(), 36)
}

func TestParseWorkflowID_RoundTrip(t *testing.T) {
	want := NewWorkflowID()
	got, err := ParseWorkflowID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseWorkflowID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"lowercase", "550e8400-e29b-41d4-a716-446655440000", ""},
		{"uppercase", "550E8400-E29B-41D4-A716-446655440000", ""},
		{"empty", "", "workflow ID is required"},
		{"nil uuid", uuid.Nil.String(), "workflow ID cannot be nil"},
		{"not a uuid", "not-a-uuid", "invalid workflow ID"},
		{"blank", "   ", "invalid workflow ID"},
		{"path segment", "../workflows", "invalid workflow ID"},
		{"embedded nul", "550e8400\x00-e29b-41d4-a716-446655440000", "invalid workflow ID"},
		{"oversized", strings.Repeat("f", 512), "invalid workflow ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseWorkflowID(tt.input)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.False(t, id.IsNil())
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
			assert.Equal(t, tt.wantMsg, dErrors.MessageOf(err))
		})
	}
}
