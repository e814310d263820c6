package entity

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the lifecycle state of a background task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusError     TaskStatus = "error"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// String returns the string representation of the status
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no background update may move the task again
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError || s == TaskStatusCancelled
}

// CanTransitionTo reports whether a background update from s to next is allowed.
// Cancellation is requested by a caller, not a background update, and goes
// through Task.Cancel instead. pending -> error covers jobs that could not be
// dispatched at all.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusRunning || next == TaskStatusError
	case TaskStatusRunning:
		return next == TaskStatusCompleted || next == TaskStatusError
	default:
		return false
	}
}

// TaskKind identifies which executor path handles a task
type TaskKind string

const (
	TaskKindAgent          TaskKind = "agent"
	TaskKindTestCrew       TaskKind = "test_crew"
	TaskKindSecurityCrew   TaskKind = "security_crew"
	TaskKindDocument       TaskKind = "document_analysis"
	TaskKindText           TaskKind = "text_analysis"
	TaskKindAutomation     TaskKind = "automation_generation"
	TaskKindAutomationBulk TaskKind = "automation_batch"
)

// String returns the string representation of the kind
func (k TaskKind) String() string {
	return string(k)
}

// Task is a tracked unit of background work
type Task struct {
	ID        string     `json:"id"`
	Kind      TaskKind   `json:"type"`
	AgentType string     `json:"agent_type,omitempty"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Result    *Result    `json:"result"`
}

// Transition applies a background status update. It returns false and leaves
// the task untouched when the move is not allowed. A result is still recorded
// on a cancelled task so callers can see what the cancelled work produced.
func (t *Task) Transition(next TaskStatus, result *Result, now time.Time) bool {
	if !t.Status.CanTransitionTo(next) {
		if t.Status == TaskStatusCancelled && result != nil && t.Result == nil {
			t.Result = result
			t.UpdatedAt = now
		}
		return false
	}
	t.Status = next
	if result != nil {
		t.Result = result
	}
	t.UpdatedAt = now
	return true
}

// Cancel marks the task cancelled regardless of its current status
func (t *Task) Cancel(now time.Time) {
	t.Status = TaskStatusCancelled
	t.UpdatedAt = now
}

// Clone returns a copy safe to hand out of a store
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Result != nil {
		r := *t.Result
		cp.Result = &r
	}
	return &cp
}

// Result is the typed outcome of a task: exactly one of Payload or Err is set.
type Result struct {
	Payload json.RawMessage
	Err     string
}

// Success builds a success result from any JSON-encodable payload
func Success(payload interface{}) (*Result, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Result{Payload: raw}, nil
}

// Failure builds an error result
func Failure(message string) *Result {
	return &Result{Err: message}
}

// IsError reports whether the result is the error variant
func (r *Result) IsError() bool {
	return r != nil && r.Payload == nil
}

// MarshalJSON renders the payload as-is, or {"error": msg} for failures
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Payload == nil {
		return json.Marshal(map[string]string{"error": r.Err})
	}
	return r.Payload, nil
}

// UnmarshalJSON is the inverse of MarshalJSON. An object whose only key is
// "error" decodes to the error variant.
func (r *Result) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil && len(fields) == 1 {
		if raw, ok := fields["error"]; ok {
			var msg string
			if err := json.Unmarshal(raw, &msg); err == nil {
				*r = Result{Err: msg}
				return nil
			}
		}
	}
	r.Payload = append(json.RawMessage(nil), data...)
	r.Err = ""
	return nil
}

// Job is the serializable description of work handed to a dispatcher
type Job struct {
	TaskID    string          `json:"task_id"`
	Kind      TaskKind        `json:"kind"`
	AgentType string          `json:"agent_type,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// NewJob builds a job from a JSON-encodable request payload
func NewJob(taskID string, kind TaskKind, agentType string, payload interface{}) (*Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Job{TaskID: taskID, Kind: kind, AgentType: agentType, Payload: raw}, nil
}

// Decode unmarshals the job payload into v
func (j *Job) Decode(v interface{}) error {
	return json.Unmarshal(j.Payload, v)
}
