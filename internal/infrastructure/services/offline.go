package services

import (
	"github.com/nexusqa/agents/internal/domain/entity"
)

// OfflineResponder answers LLM requests from the rule-based generators
type OfflineResponder struct {
	synth          ScenarioSynthesizer
	scripts        ScriptGenerator
	defaultBaseURL string
}

// NewOfflineResponder creates a responder for the offline LLM provider
func NewOfflineResponder(synth ScenarioSynthesizer, scripts ScriptGenerator, defaultBaseURL string) *OfflineResponder {
	return &OfflineResponder{
		synth:          synth,
		scripts:        scripts,
		defaultBaseURL: defaultBaseURL,
	}
}

// Scenarios returns the keyword fallback scenarios for subject
func (r *OfflineResponder) Scenarios(subject, template string) []entity.Scenario {
	return r.synth.Fallback(subject, template)
}

// Code renders a TODO-annotated script from the scenario steps
func (r *OfflineResponder) Code(s *entity.Scenario) string {
	baseURL := s.TargetURL
	if baseURL == "" {
		baseURL = r.defaultBaseURL
	}
	return r.scripts.GeneratePlaywrightScript(s.Title, baseURL, s.Steps, nil, s.ExpectedResult)
}
