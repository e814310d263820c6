package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Priority represents how urgently a scenario should be covered
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}

// IsValid reports whether p is one of the known priorities
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// AutomationType represents the layer a scenario is automated against
type AutomationType string

const (
	AutomationUI          AutomationType = "UI"
	AutomationAPI         AutomationType = "API"
	AutomationIntegration AutomationType = "INTEGRATION"
)

// String returns the string representation of the automation type
func (a AutomationType) String() string {
	return string(a)
}

// ScenarioID is an identifier assigned by the backend. It arrives as either a
// JSON number or a JSON string.
type ScenarioID string

// UnmarshalJSON accepts numbers and strings
func (id *ScenarioID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ScenarioID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scenario id: %w", err)
	}
	*id = ScenarioID(n.String())
	return nil
}

// Step is one numbered action of a scenario
type Step struct {
	Number int    `json:"number"`
	Action string `json:"action"`
}

// UnmarshalJSON accepts a bare string, or an object using "action" or "description"
func (s *Step) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Action)
	}

	var raw struct {
		Number      json.RawMessage `json:"number"`
		Action      string          `json:"action"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Action = raw.Action
	if s.Action == "" {
		s.Action = raw.Description
	}
	if len(raw.Number) > 0 {
		n, err := strconv.Atoi(strings.Trim(string(raw.Number), `"`))
		if err == nil {
			s.Number = n
		}
	}
	return nil
}

// Scenario is a structured test case
type Scenario struct {
	ID             ScenarioID             `json:"id,omitempty"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Steps          []Step                 `json:"steps"`
	ExpectedResult string                 `json:"expectedResult"`
	Priority       Priority               `json:"priority"`
	AutomationType AutomationType         `json:"automationType"`
	TestData       map[string]interface{} `json:"testData"`
	Preconditions  string                 `json:"preconditions,omitempty"`
	BDDFormat      string                 `json:"bddFormat,omitempty"`
	TargetURL      string                 `json:"targetUrl,omitempty"`
}

// UnmarshalJSON tolerates the shapes models give preconditions and testData:
// a list of preconditions is joined into text and a non-object testData is
// kept under "value".
func (s *Scenario) UnmarshalJSON(data []byte) error {
	type plain Scenario
	var raw struct {
		plain
		TestData      json.RawMessage `json:"testData"`
		Preconditions json.RawMessage `json:"preconditions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Scenario(raw.plain)
	s.Preconditions = looseText(raw.Preconditions)
	s.TestData = looseObject(raw.TestData)
	return nil
}

func looseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var text string
	if json.Unmarshal(raw, &text) == nil {
		return text
	}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if part := looseText(item); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, "; ")
	}
	return string(raw)
}

func looseObject(raw json.RawMessage) map[string]interface{} {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var obj map[string]interface{}
	if json.Unmarshal(raw, &obj) == nil {
		return obj
	}
	var v interface{}
	if json.Unmarshal(raw, &v) != nil {
		return nil
	}
	return map[string]interface{}{"value": v}
}

// Normalize fills step numbers and defaults the enums left empty by a provider
func (s *Scenario) Normalize() {
	for i := range s.Steps {
		if s.Steps[i].Number == 0 {
			s.Steps[i].Number = i + 1
		}
	}
	if !s.Priority.IsValid() {
		s.Priority = Priority(strings.ToUpper(string(s.Priority)))
		if !s.Priority.IsValid() {
			s.Priority = PriorityMedium
		}
	}
	if s.AutomationType == "" {
		s.AutomationType = AutomationUI
	}
	if s.TestData == nil {
		s.TestData = map[string]interface{}{}
	}
}

// Validate validates the scenario entity
func (s *Scenario) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return NewValidationError("title", "Scenario title is required")
	}
	return nil
}

// RenderBDD builds the Gherkin rendering: one Given, one When per step, one Then
func (s *Scenario) RenderBDD() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature: %s\n", s.Title)
	fmt.Fprintf(&b, "  Scenario: %s\n", s.Title)
	b.WriteString("    Given sistem başlatılmış\n")
	for _, step := range s.Steps {
		fmt.Fprintf(&b, "    When %s\n", step.Action)
	}
	fmt.Fprintf(&b, "    Then %s", s.ExpectedResult)
	return b.String()
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}
