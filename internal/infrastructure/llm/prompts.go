package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// System prompts for the scenario extraction calls
const (
	DocumentSystemPrompt = "You are a test automation expert who generates test scenarios from documents."
	TextSystemPrompt     = "You are a test automation expert who generates test scenarios from requirements."
)

const scenarioFields = `- Each scenario should have:
  * title: Brief descriptive title
  * description: What the test does
  * steps: Array of steps with number and action (use clear, specific action verbs)
  * expectedResult: What should happen
  * priority: HIGH, MEDIUM, or LOW
  * automationType: UI, API, or INTEGRATION`

const languageRule = `- **LANGUAGE RULE: Generate ALL content (title, description, steps, expectedResult) in the SAME LANGUAGE as the input**
  * If the input is in Turkish → ALL fields must be in Turkish
  * If the input is in English → ALL fields must be in English`

// ScenarioOptions toggles optional prompt sections
type ScenarioOptions struct {
	Template      string
	IncludeBDD    bool
	EdgeCases     bool
	SecurityTests bool
}

func (o ScenarioOptions) extraRules() string {
	var b strings.Builder
	if o.Template == "bdd" || o.IncludeBDD {
		b.WriteString("\n- Each scenario should also include a 'bddFormat' field with Gherkin syntax (Feature, Scenario, Given-When-Then)")
	}
	if o.EdgeCases {
		b.WriteString("\n- Include edge cases and boundary conditions")
	}
	if o.SecurityTests {
		b.WriteString("\n- Include security-focused scenarios (authorization, input validation, injection)")
	}
	return b.String()
}

// DocumentAnalysisPrompt asks for a {"scenarios": [...]} object covering the whole document
func DocumentAnalysisPrompt(content string, opts ScenarioOptions) string {
	return fmt.Sprintf(`Analyze the following document and generate test scenarios.

Document Statistics:
- Length: %d characters
- Words: ~%d words

Document content:
%s

Instructions:
- CRITICAL: Read the ENTIRE document from beginning to end before generating scenarios
- Do NOT skip any sections, chapters, or requirements
%s
- Generate scenarios based on document complexity and ALL requirements found:
  * Simple single-sentence requirements → 1-2 scenarios
  * Medium documents with multiple features → 3-7 scenarios
  * Complex PRD documents → 8-15+ scenarios
- IMPORTANT: Extract scenarios from ALL sections of the document, not just the beginning
%s%s

Return ONLY a valid JSON object with a "scenarios" array. No markdown, no code blocks.`,
		len(content), len(strings.Fields(content)), content, languageRule, scenarioFields, opts.extraRules())
}

// TextAnalysisPrompt asks for a bare JSON array of scenarios
func TextAnalysisPrompt(text string, opts ScenarioOptions) string {
	return fmt.Sprintf(`Analyze the following test requirement and generate test scenarios.

Text Statistics:
- Length: %d characters
- Words: ~%d words

Requirement text:
%s

Instructions:
- CRITICAL: Read the ENTIRE text carefully before generating scenarios
- **CAPTURE ALL STEPS**: Each line or action mentioned in the input must become a separate step
- **NEVER SKIP POST-ACTION STEPS**: If the text says "after login, do X", X must be included as steps
- Adjust scenario count based on requirement complexity:
  * Single simple action → 1 scenario
  * Multiple related actions → 2-4 scenarios
  * Complex multi-feature requirements → 5-10+ scenarios
- IMPORTANT: Don't create unnecessary scenarios - match the actual requirements
%s
%s%s

Example:
Input: "search for Lord of the Rings and click it"
Output:
[
  {
    "title": "Search and View Lord of the Rings",
    "description": "Search for a movie and view details",
    "steps": [
      {"number": 1, "action": "Navigate to homepage"},
      {"number": 2, "action": "Type 'Lord of the Rings' into search box"},
      {"number": 3, "action": "Click search button"},
      {"number": 4, "action": "Click on the movie from results"}
    ],
    "expectedResult": "Movie details are displayed",
    "priority": "HIGH",
    "automationType": "UI"
  }
]

- NEVER use vague actions like "Locate" - use "Search for" or "Type into"
- Return ONLY the JSON array, no markdown, no additional text`,
		len(text), len(strings.Fields(text)), text, languageRule, scenarioFields, opts.extraRules())
}

// SuiteInfo is the test suite context sent with automation requests
type SuiteInfo struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
}

// CodeGenerationPrompt asks for a runnable Playwright test for one scenario
func CodeGenerationPrompt(s *entity.Scenario, suite SuiteInfo, defaultBaseURL string) string {
	baseURL := suite.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	targetURL := s.TargetURL
	if targetURL == "" {
		targetURL = baseURL
	}
	title := s.Title
	if title == "" {
		title = "Test Senaryosu"
	}
	safeTitle := strings.ReplaceAll(title, "'", `\'`)
	expected := s.ExpectedResult
	if expected == "" {
		expected = "İşlem başarılı olmalı"
	}
	preconditions := s.Preconditions
	if preconditions == "" {
		preconditions = "Yok"
	}
	testData := renderTestData(s.TestData)
	if testData == "" {
		testData = "// Test verisi tanımla"
	}

	return fmt.Sprintf(`Sen bir Playwright test otomasyon uzmanısın. Aşağıdaki test senaryosu için ÇALIŞIR Playwright test kodu yaz.

=== SENARYO BİLGİLERİ ===
Başlık: %s
Açıklama: %s
Hedef URL: %s

=== TEST ADIMLARI ===
%s

=== BEKLENEN SONUÇ ===
%s

=== ÖN KOŞULLAR ===
%s

=== ÖNEMLİ KURALLAR ===
1. SADECE JavaScript kodu döndür - başka metin, açıklama veya markdown YAZMA
2. Kodun başında import { test, expect } from '@playwright/test'; olsun
3. Her adım için Türkçe yorum ekle
4. Geçerli selector'lar kullan: [data-testid="..."], [placeholder="..."], button:has-text("..."), input[type="..."]
5. Her await ifadesinden sonra kısa bekleme ekle: await page.waitForTimeout(500);
6. Assertion'lar ekle: toBeVisible(), toHaveText(), toHaveURL() vb.

=== ÇIKTI FORMATI ===
import { test, expect } from '@playwright/test';

test.describe('%s', () => {
  test('%s', async ({ page }) => {
    %s

    // Adım 1: Sayfaya git
    await page.goto('%s');
    await page.waitForLoadState('networkidle');

    // Adım 2-N: Senaryodaki her adımı implement et

    // Son: Beklenen sonucu doğrula
  });
});

SADECE KOD DÖNDÜR, BAŞKA BİR ŞEY YAZMA:`,
		title, s.Description, targetURL, FormatSteps(s.Steps), expected, preconditions,
		safeTitle, safeTitle, testData, targetURL)
}

// FormatSteps renders steps as a numbered list
func FormatSteps(steps []entity.Step) string {
	if len(steps) == 0 {
		return "Adımlar belirtilmemiş"
	}
	lines := make([]string, len(steps))
	for i, st := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, st.Action)
	}
	return strings.Join(lines, "\n")
}

// renderTestData emits a JS object literal for the non-empty values, in key order
func renderTestData(data map[string]interface{}) string {
	keys := make([]string, 0, len(data))
	for k, v := range data {
		if v == nil || v == "" || v == false {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = fmt.Sprintf("      %s: '%v'", k, data[k])
	}
	return "const testData = {\n" + strings.Join(items, ",\n") + "\n    };"
}

// ProjectInfo describes the system under test for crew runs
type ProjectInfo struct {
	Name        string `json:"name"`
	BaseURL     string `json:"base_url"`
	Description string `json:"description"`
}

// TestPlanningPrompt asks the orchestrator for a test plan
func TestPlanningPrompt(p ProjectInfo) string {
	return fmt.Sprintf(`Aşağıdaki proje için kapsamlı bir test planı oluştur:

PROJE BİLGİLERİ:
- Proje Adı: %s
- Base URL: %s
- Açıklama: %s

YAPILACAKLAR:
1. TEST KAPSAMI BELİRLE: test edilecek modüller, kapsanacak kullanıcı senaryoları, kritik iş akışları
2. TEST STRATEJİSİ OLUŞTUR: smoke, regression, E2E ve negatif testler
3. ÖNCELİKLENDİRME YAP: Critical, High, Medium, Low`,
		orDefault(p.Name, "Bilinmiyor"), orDefault(p.BaseURL, "Belirtilmemiş"), orDefault(p.Description, "Açıklama yok"))
}

// UITestPrompt asks the test architect for Playwright scenarios based on a plan
func UITestPrompt(suiteName, suiteType, suiteDescription, plan string) string {
	return fmt.Sprintf(`Aşağıdaki test planına göre Playwright test senaryoları oluştur:

TEST SUITE:
- Suite Adı: %s
- Tip: %s
- Açıklama: %s

TEST PLANI:
%s

YAPILACAKLAR:
1. TEST SENARYOLARI TASARLA: ID (TC-XXX), başlık, önkoşullar, Given-When-Then adımlar, beklenen sonuç, öncelik, test verisi
2. PLAYWRIGHT SCRIPT YAZ: Page Object Model, her test için ayrı describe bloğu`,
		orDefault(suiteName, "Test Suite"), orDefault(suiteType, "UI"), suiteDescription, plan)
}

// Endpoint is one API operation for the API test prompt
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// APITestPrompt asks for API test scenarios
func APITestPrompt(baseURL string, endpoints []Endpoint) string {
	lines := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		lines = append(lines, fmt.Sprintf("- %s %s - %s", orDefault(e.Method, "GET"), orDefault(e.Path, "/"), e.Description))
	}
	list := "Endpoint bilgisi yok"
	if len(lines) > 0 {
		list = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(`Aşağıdaki API'ler için kapsamlı test senaryoları oluştur:

API BASE URL: %s

ENDPOINTS:
%s

YAPILACAKLAR:
1. Her endpoint için pozitif ve negatif senaryolar
2. Status code, response şeması ve hata mesajı doğrulamaları
3. Yetkilendirme ve sınır değer testleri`, baseURL, list)
}

// SecurityScanPrompt asks the security analyst for an OWASP Top 10 review of a target
func SecurityScanPrompt(url string, endpoints, forms []string) string {
	return fmt.Sprintf(`Aşağıdaki hedef için güvenlik taraması yap:

HEDEF URL: %s
ENDPOINTS: %v
FORMLAR: %v

OWASP TOP 10 KONTROL LİSTESİ:
1. A01:2021 - Broken Access Control
2. A02:2021 - Cryptographic Failures
3. A03:2021 - Injection
4. A04:2021 - Insecure Design
5. A05:2021 - Security Misconfiguration
6. A06:2021 - Vulnerable and Outdated Components
7. A07:2021 - Identification and Authentication Failures
8. A08:2021 - Software and Data Integrity Failures
9. A09:2021 - Security Logging and Monitoring Failures
10. A10:2021 - Server-Side Request Forgery

Her bulgu için başlık, severity, konum ve düzeltme önerisi ver.`, url, endpoints, forms)
}

// Vulnerability is a finding passed to the report prompt
type Vulnerability struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Location string `json:"location"`
}

// VulnerabilityReportPrompt asks for a detailed report of known findings
func VulnerabilityReportPrompt(vulns []Vulnerability) string {
	list := "Açık listesi boş"
	if len(vulns) > 0 {
		lines := make([]string, len(vulns))
		for i, v := range vulns {
			lines[i] = fmt.Sprintf("- %s: %s - %s", orDefault(v.Name, "Unknown"), orDefault(v.Severity, "N/A"), orDefault(v.Location, "N/A"))
		}
		list = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(`Bulunan güvenlik açıkları için detaylı rapor hazırla:

BULUNAN AÇIKLAR:
%s

HER AÇIK İÇİN: ID (SEC-XXX), başlık, severity, CVSS v3.1 skoru ve vektörü, etki analizi, tekrar üretme adımları ve düzeltme önerisi.`, list)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
