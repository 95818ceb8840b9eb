package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseResponse_JSONSerialization(t *testing.T) {
	tests := []struct {
		name     string
		response BaseResponse
		expected string
	}{
		{
			name: "Response with data and message",
			response: BaseResponse{
				Data:    map[string]interface{}{"id": "123", "title": "test"},
				Message: "success",
			},
			expected: `{"data":{"id":"123","title":"test"},"message":"success"}`,
		},
		{
			name: "Response with nil data",
			response: BaseResponse{
				Data:    nil,
				Message: "error occurred",
			},
			expected: `{"message":"error occurred"}`,
		},
		{
			name: "Response with slice data",
			response: BaseResponse{
				Data:    []string{"item1", "item2"},
				Message: "success",
			},
			expected: `{"data":["item1","item2"],"message":"success"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonData, err := json.Marshal(tt.response)
			assert.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(jsonData))
		})
	}
}

func TestImportResult_OmitsEmptyFields(t *testing.T) {
	jsonData, err := json.Marshal(ImportResult{Row: 2, Error: "title: required"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"row":2,"error":"title: required"}`, string(jsonData))

	jsonData, err = json.Marshal(ImportResult{Row: 1, Request: &EventRequest{ID: "req-1"}})
	assert.NoError(t, err)
	assert.Contains(t, string(jsonData), `"request":{"id":"req-1"`)
	assert.NotContains(t, string(jsonData), `"error"`)
}

func TestRemarkRequest_JSONDeserialization(t *testing.T) {
	var req RemarkRequest
	err := json.Unmarshal([]byte(`{"remark":"Please add a capacity limit"}`), &req)
	assert.NoError(t, err)
	assert.Equal(t, "Please add a capacity limit", req.Remark)
}

func TestProposalRequest_FlattensFields(t *testing.T) {
	var req ProposalRequest
	err := json.Unmarshal([]byte(`{"faculty_id":"f1","title":"Hack Night","venue":"Lab 3","date":"2030-01-02T18:00:00Z","capacity":40}`), &req)
	assert.NoError(t, err)
	assert.Equal(t, "f1", req.FacultyID)
	assert.Equal(t, "Hack Night", req.Title)
	assert.Equal(t, "Lab 3", req.Venue)
	assert.Equal(t, 40, req.Capacity)
	assert.Equal(t, 2030, req.Date.Year())
}
