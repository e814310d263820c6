package entity

// DiscoveredElement is a page element found for one scenario step
type DiscoveredElement struct {
	StepNumber int    `json:"stepNumber"`
	Selector   string `json:"selector"`
	ActionType string `json:"actionType"`
}

// AutomationResult is the outcome of generating code for one scenario
type AutomationResult struct {
	Success        bool           `json:"success"`
	Code           string         `json:"code"`
	AutomationType AutomationType `json:"automation_type"`
	ScenarioTitle  string         `json:"scenario_title"`
	ScenarioID     ScenarioID     `json:"scenario_id,omitempty"`
	Error          string         `json:"error,omitempty"`
	Cost           float64        `json:"cost,omitempty"`
}

// AutomationBatchResult aggregates per-scenario results keyed by scenario id
type AutomationBatchResult struct {
	Success    bool                         `json:"success"`
	Results    map[string]*AutomationResult `json:"results"`
	Total      int                          `json:"total"`
	Successful int                          `json:"successful"`
}
