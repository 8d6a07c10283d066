package qmp

import "encoding/json"

// Event is an asynchronous message pushed by the emulator outside the
// normal command/response flow.
type Event struct {
	Event     string          `json:"event"`
	Timestamp Timestamp       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Timestamp is a QMP event's wall-clock stamp.
type Timestamp struct {
	Seconds      int64 `json:"seconds"`
	Microseconds int64 `json:"microseconds"`
}

// Error is a QMP error-return payload: {"error": {"class", "desc"}}.
type Error struct {
	Class string `json:"class"`
	Desc  string `json:"desc"`
}

func (e *Error) Error() string {
	return e.Class + ": " + e.Desc
}

// Job mirrors one entry of a query-jobs response. Status is kept raw
// because the server may report it either as the string "concluded" or
// as a bare JSON null once a job has fully drained.
type Job struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Status json.RawMessage `json:"status"`
	Error  *Error          `json:"error,omitempty"`
}

// Concluded reports whether the job has finished, per §4.6's status ∈
// {"concluded", null} contract.
func (j Job) Concluded() bool {
	s := string(j.Status)
	return s == `"concluded"` || s == "null" || s == ""
}

// BlockDevice mirrors one entry of a query-block response, reduced to
// the fields the launcher's snapshot operations need.
type BlockDevice struct {
	Device   string `json:"device"`
	Inserted *struct {
		NodeName string `json:"node-name"`
	} `json:"inserted,omitempty"`
}
