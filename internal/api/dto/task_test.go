package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssigneeSelectorStates(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name        string
		body        string
		provided    bool
		null        bool
		cleared     bool
		expectID    uuid.UUID
		expectError bool
	}{
		{
			name:     "absent field leaves assignment unchanged",
			body:     `{"title":"x"}`,
			provided: false,
		},
		{
			name:     "explicit null requests rebalancing",
			body:     `{"assigned_to":null}`,
			provided: true,
			null:     true,
		},
		{
			name:     "empty string clears the assignment",
			body:     `{"assigned_to":""}`,
			provided: true,
			cleared:  true,
		},
		{
			name:     "concrete id assigns a user",
			body:     `{"assigned_to":"` + id.String() + `"}`,
			provided: true,
			expectID: id,
		},
		{
			name:        "malformed id is rejected",
			body:        `{"assigned_to":"not-a-uuid"}`,
			expectError: true,
		},
		{
			name:        "non-string value is rejected",
			body:        `{"assigned_to":42}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTaskRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.provided, req.AssignedTo.Provided())
			assert.Equal(t, tt.null, req.AssignedTo.IsNull())
			assert.Equal(t, tt.cleared, req.AssignedTo.IsCleared())
			if tt.expectID != uuid.Nil {
				assert.Equal(t, tt.expectID, req.AssignedTo.UserID())
			}
		})
	}
}

func TestAssigneeSelectorRoundTrip(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		body    string
		omitted bool
		value   string
	}{
		{name: "absent field stays absent", body: `{"title":"x"}`, omitted: true},
		{name: "null round-trips", body: `{"assigned_to":null}`, value: "null"},
		{name: "empty string round-trips", body: `{"assigned_to":""}`, value: `""`},
		{name: "id round-trips", body: `{"assigned_to":"` + id.String() + `"}`, value: `"` + id.String() + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			out, err := json.Marshal(req)
			require.NoError(t, err)

			var fields map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(out, &fields))

			raw, present := fields["assigned_to"]
			if tt.omitted {
				assert.False(t, present, "an untouched assignment must not reappear on the wire")
				return
			}
			require.True(t, present)
			assert.Equal(t, tt.value, string(raw))
		})
	}
}

func TestUpdateTaskRequestPartialFields(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"done"}`), &req))

	require.NotNil(t, req.Status)
	assert.Equal(t, "done", *req.Status)
	assert.Nil(t, req.Title)
	assert.Nil(t, req.Description)
	assert.Nil(t, req.Priority)
	assert.Nil(t, req.LastModified)
	assert.False(t, req.AssignedTo.Provided())
}
