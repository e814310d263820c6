package usecase

import (
	"encoding/json"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
)

// RunAgentRequest is the body of POST /run
type RunAgentRequest struct {
	AgentType string          `json:"agent_type" binding:"required"`
	SuiteID   *int            `json:"suite_id,omitempty"`
	Options   json.RawMessage `json:"options,omitempty"`
}

// AgentOptions are the options the test architect reads when asked for a script
type AgentOptions struct {
	ScenarioTitle      string                     `json:"scenario_title"`
	BaseURL            string                     `json:"base_url"`
	Steps              []entity.Step              `json:"steps"`
	DiscoveredElements []entity.DiscoveredElement `json:"discovered_elements"`
	ExpectedResult     string                     `json:"expected_result"`
}

// TestSuiteInfo describes the suite a crew works on
type TestSuiteInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// APISpec lists the endpoints for the API test step
type APISpec struct {
	BaseURL   string         `json:"base_url"`
	Endpoints []llm.Endpoint `json:"endpoints"`
}

// SecurityTarget is what the security crew scans
type SecurityTarget struct {
	URL             string              `json:"url"`
	Endpoints       []string            `json:"endpoints"`
	Forms           []string            `json:"forms"`
	Vulnerabilities []llm.Vulnerability `json:"vulnerabilities,omitempty"`
}

// CrewRequest is the body of POST /crew/test and POST /crew/security
type CrewRequest struct {
	CrewType       string          `json:"crew_type"`
	Project        llm.ProjectInfo `json:"project"`
	TestSuite      *TestSuiteInfo  `json:"test_suite,omitempty"`
	APISpec        *APISpec        `json:"api_spec,omitempty"`
	SecurityTarget *SecurityTarget `json:"security_target,omitempty"`
}

// DocumentAnalysisRequest is the body of POST /crew/document-analysis
type DocumentAnalysisRequest struct {
	DocumentContent string                 `json:"document_content" binding:"required"`
	DocumentInfo    map[string]interface{} `json:"document_info"`
	SuiteID         *int                   `json:"suite_id,omitempty"`
	Template        string                 `json:"template"`
	Options         AnalysisOptions        `json:"options"`
}

// TextAnalysisRequest is the body of POST /crew/text-analysis
type TextAnalysisRequest struct {
	RequirementText string          `json:"requirement_text" binding:"required"`
	Template        string          `json:"template"`
	Options         AnalysisOptions `json:"options"`
}

// AnalysisOptions toggles optional scenario categories
type AnalysisOptions struct {
	IncludeBDD    bool `json:"includeBDD"`
	EdgeCases     bool `json:"edgeCases"`
	SecurityTests bool `json:"securityTests"`
}

func (o AnalysisOptions) scenarioOptions(template string) llm.ScenarioOptions {
	return llm.ScenarioOptions{
		Template:      template,
		IncludeBDD:    o.IncludeBDD,
		EdgeCases:     o.EdgeCases,
		SecurityTests: o.SecurityTests,
	}
}

// AutomationRequest is the body of POST /crew/generate-automation
type AutomationRequest struct {
	Scenario          entity.Scenario   `json:"scenario"`
	TestSuiteInfo     llm.SuiteInfo     `json:"test_suite_info"`
	BackendDocumentID entity.ScenarioID `json:"backend_document_id,omitempty"`
	BackendScenarioID entity.ScenarioID `json:"backend_scenario_id,omitempty"`
}

// AutomationBatchRequest is the body of POST /crew/generate-automation/batch
type AutomationBatchRequest struct {
	Scenarios     []entity.Scenario `json:"scenarios" binding:"required"`
	TestSuiteInfo llm.SuiteInfo     `json:"test_suite_info"`
}

// RequirementsRequest is the body of POST /analyze/requirements
type RequirementsRequest struct {
	Text     string `json:"text" binding:"required"`
	Template string `json:"template"`
}

// ScenarioResult is the payload of a finished analysis task
type ScenarioResult struct {
	Success   bool              `json:"success"`
	Scenarios []entity.Scenario `json:"scenarios"`
	Cost      float64           `json:"cost"`
	Usage     *llm.UsageInfo    `json:"usage,omitempty"`
	Fallback  bool              `json:"fallback,omitempty"`
}
