package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// TemplateBDD requests a Gherkin rendering on every scenario
const TemplateBDD = "bdd"

const maxFlowSteps = 5

// ScenarioSynthesizer turns analyzer output or raw text into scenarios
type ScenarioSynthesizer interface {
	Synthesize(analysis *entity.Analysis, template string) []entity.Scenario
	Fallback(text, template string) []entity.Scenario
}

type scenarioSynthesizer struct{}

// NewScenarioSynthesizer creates the rule-based synthesizer
func NewScenarioSynthesizer() ScenarioSynthesizer {
	return &scenarioSynthesizer{}
}

// Synthesize emits flow, risk, edge-case and negative scenarios, deduplicated by title
func (s *scenarioSynthesizer) Synthesize(analysis *entity.Analysis, template string) []entity.Scenario {
	var all []entity.Scenario
	for _, flow := range analysis.UserFlows {
		all = append(all, flowScenario(flow))
	}
	for _, bucket := range analysis.Risks {
		if len(bucket.Keywords) > 0 {
			all = append(all, riskScenario(bucket))
		}
	}
	for _, edge := range analysis.EdgeCases {
		all = append(all, edgeCaseScenario(edge))
	}
	all = append(all, negativeScenario())

	seen := make(map[string]bool, len(all))
	unique := make([]entity.Scenario, 0, len(all))
	for _, sc := range all {
		key := strings.ToLower(sc.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		if template == TemplateBDD {
			sc.BDDFormat = sc.RenderBDD()
		}
		unique = append(unique, sc)
	}
	return unique
}

func numbered(actions ...string) []entity.Step {
	steps := make([]entity.Step, len(actions))
	for i, a := range actions {
		steps[i] = entity.Step{Number: i + 1, Action: a}
	}
	return steps
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func flowScenario(flow entity.UserFlow) entity.Scenario {
	steps := flow.Steps
	if len(steps) > maxFlowSteps {
		steps = steps[:maxFlowSteps]
	}
	description := flow.Description
	if description == "" {
		description = "User Flow Scenario"
	}
	return entity.Scenario{
		Title:          truncate(description, 50),
		Description:    description,
		Steps:          numbered(steps...),
		ExpectedResult: "İşlem başarıyla tamamlandı",
		Priority:       entity.PriorityHigh,
		AutomationType: entity.AutomationUI,
		TestData:       map[string]interface{}{},
		Preconditions:  "Kullanıcı oturum açmış",
	}
}

func riskScenario(bucket entity.RiskBucket) entity.Scenario {
	first := bucket.Keywords[0]
	return entity.Scenario{
		Title:       fmt.Sprintf("%s Risk Test: %s", bucket.Level, first),
		Description: "Test için kritik alan: " + strings.Join(bucket.Keywords, ", "),
		Steps: numbered(
			first+" ile ilgili işlemi başlat",
			"Sistem davranışını gözlemle",
			"Güvenlik kontrolleri doğrula",
		),
		ExpectedResult: fmt.Sprintf("%s seviyesi için uygun güvenlik sağlanmış", bucket.Level),
		Priority:       bucket.Level,
		AutomationType: entity.AutomationUI,
		TestData:       map[string]interface{}{"riskArea": first},
		Preconditions:  "Sistem ayakta",
	}
}

func edgeCaseScenario(edge string) entity.Scenario {
	return entity.Scenario{
		Title:       "Edge Case: " + truncate(edge, 40),
		Description: "Edge case testi: " + edge,
		Steps: numbered(
			edge+" koşullarını hazırla",
			"İşlemi çalıştır",
			"Sistem doğru davranış gösteriyor mu?",
		),
		ExpectedResult: "Sistem edge case'i doğru işler",
		Priority:       entity.PriorityMedium,
		AutomationType: entity.AutomationUI,
		TestData:       map[string]interface{}{"edgeCase": edge},
		Preconditions:  "Sistem hazır",
	}
}

func negativeScenario() entity.Scenario {
	return entity.Scenario{
		Title:       "Negatif Test Senaryosu",
		Description: "Hatalı veya geçersiz girdilerle sistem davranışını test et",
		Steps: numbered(
			"Geçersiz veriler gir",
			"İşlemi başlat",
			"Hata mesajı kontrol et",
		),
		ExpectedResult: "Sistem uygun hata mesajı gösteriyor",
		Priority:       entity.PriorityHigh,
		AutomationType: entity.AutomationUI,
		TestData:       map[string]interface{}{"invalid": true, "errorExpected": true},
		Preconditions:  "Sistem ayakta",
	}
}
