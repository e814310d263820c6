package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/pkg/logger"
)

var _ llm.OfflineResponder = (*OfflineResponder)(nil)

func titles(scenarios []entity.Scenario) []string {
	out := make([]string, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.Title
	}
	return out
}

func TestSynthesizeOneScenarioPerRiskBucket(t *testing.T) {
	analysis := NewRequirementAnalyzer(nil, logger.NewNop()).Analyze("Login with a valid session.")
	got := NewScenarioSynthesizer().Synthesize(analysis, "text")

	var risk []entity.Scenario
	for _, s := range got {
		if strings.Contains(s.Title, "Risk Test") {
			risk = append(risk, s)
		}
	}
	require.Len(t, risk, 1)
	assert.Equal(t, "HIGH Risk Test: session", risk[0].Title)
	assert.Equal(t, "Test için kritik alan: session, login", risk[0].Description)
	assert.Equal(t, map[string]interface{}{"riskArea": "session"}, risk[0].TestData)
	assert.Equal(t, entity.PriorityHigh, risk[0].Priority)
}

func TestSynthesizeOrderAndNegative(t *testing.T) {
	analysis := &entity.Analysis{
		UserFlows: []entity.UserFlow{{Description: "Checkout flow", Steps: []string{"a", "b", "c", "d", "e", "f"}}},
		Risks:     []entity.RiskBucket{{Level: entity.PriorityLow, Keywords: []string{"layout"}}},
		EdgeCases: []string{"NULL: empty"},
	}
	got := NewScenarioSynthesizer().Synthesize(analysis, "")

	assert.Equal(t, []string{"Checkout flow", "LOW Risk Test: layout", "Edge Case: NULL: empty", "Negatif Test Senaryosu"}, titles(got))
	assert.Len(t, got[0].Steps, 5)
	assert.Equal(t, "Kullanıcı oturum açmış", got[0].Preconditions)
	assert.Equal(t, "NULL: empty koşullarını hazırla", got[2].Steps[0].Action)
	assert.Equal(t, map[string]interface{}{"invalid": true, "errorExpected": true}, got[3].TestData)
	for _, s := range got {
		assert.Empty(t, s.BDDFormat)
	}
}

func TestSynthesizeDeduplicatesTitles(t *testing.T) {
	analysis := &entity.Analysis{
		UserFlows: []entity.UserFlow{
			{Description: "Negatif test senaryosu", Steps: []string{"first"}},
			{Description: "NEGATIF TEST SENARYOSU", Steps: []string{"second"}},
		},
	}
	got := NewScenarioSynthesizer().Synthesize(analysis, "")
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Steps[0].Action)
}

func TestSynthesizeTruncatesTitles(t *testing.T) {
	long := strings.Repeat("ş", 60)
	analysis := &entity.Analysis{
		UserFlows: []entity.UserFlow{{Description: long, Steps: []string{"x"}}},
		EdgeCases: []string{strings.Repeat("ğ", 50)},
	}
	got := NewScenarioSynthesizer().Synthesize(analysis, "")
	assert.Equal(t, strings.Repeat("ş", 50), got[0].Title)
	assert.Equal(t, "Edge Case: "+strings.Repeat("ğ", 40), got[1].Title)
}

func TestSynthesizeBDD(t *testing.T) {
	analysis := &entity.Analysis{}
	got := NewScenarioSynthesizer().Synthesize(analysis, TemplateBDD)
	require.Len(t, got, 1)
	assert.Equal(t, "Feature: Negatif Test Senaryosu\n"+
		"  Scenario: Negatif Test Senaryosu\n"+
		"    Given sistem başlatılmış\n"+
		"    When Geçersiz veriler gir\n"+
		"    When İşlemi başlat\n"+
		"    When Hata mesajı kontrol et\n"+
		"    Then Sistem uygun hata mesajı gösteriyor", got[0].BDDFormat)
}

func TestFallbackLogin(t *testing.T) {
	for _, text := range []string{"User LOGIN page", "kullanıcı giriş yapar", "Giriş ekranı"} {
		got := NewScenarioSynthesizer().Fallback(text, "text")

		var login *entity.Scenario
		for i := range got {
			if got[i].Title == "Kullanıcı Girişi" {
				login = &got[i]
			}
		}
		require.NotNil(t, login, text)
		assert.GreaterOrEqual(t, len(login.Steps), 3)
		assert.Equal(t, "test@example.com", login.TestData["email"])
	}
}

func TestFallbackKeywordSelection(t *testing.T) {
	s := NewScenarioSynthesizer()

	assert.Empty(t, s.Fallback("   ", "text"))
	assert.Equal(t, []string{"Temel Fonksiyonellik Testi"}, titles(s.Fallback("show the dashboard", "text")))
	assert.Equal(t, []string{"Temel Fonksiyonellik Testi", "Ürün Arama", "Hata Durumu Yönetimi"},
		titles(s.Fallback("search shows an error", "text")))

	bdd := s.Fallback("login", TemplateBDD)
	require.Len(t, bdd, 2)
	assert.True(t, strings.HasPrefix(bdd[1].BDDFormat, "Feature: Kullanıcı Yönetimi"))
}
