package model

type BaseResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

type RemarkRequest struct {
	Remark string `json:"remark"`
}

// ImportResult reports the outcome of one row of a bulk proposal upload.
type ImportResult struct {
	Row     int           `json:"row"`
	Request *EventRequest `json:"request,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// ProposalRequest is the body of a proposal submission. FacultyID defaults
// to the signed-in faculty member.
type ProposalRequest struct {
	FacultyID string `json:"faculty_id,omitempty"`
	ProposalFields
}
