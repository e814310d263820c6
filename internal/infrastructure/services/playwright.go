package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nexusqa/agents/internal/domain/entity"
)

// ScriptGenerator renders Playwright tests from structured steps
type ScriptGenerator interface {
	GeneratePlaywrightScript(title, baseURL string, steps []entity.Step, elements []entity.DiscoveredElement, expectedResult string) string
}

type playwrightGenerator struct {
	now func() time.Time
}

// NewScriptGenerator creates a Playwright script generator
func NewScriptGenerator() ScriptGenerator {
	return &playwrightGenerator{now: time.Now}
}

var quotedValue = regexp.MustCompile(`['"]([^'"]+)['"]`)

var (
	navigateWords = []string{"navigate", "go to", "aç", "git"}
	clickWords    = []string{"tıkla", "click", "bas"}
	searchWords   = []string{"ara", "search", "bul"}
	inputWords    = []string{"yaz", "gir", "type", "fill"}
)

func (g *playwrightGenerator) GeneratePlaywrightScript(title, baseURL string, steps []entity.Step, elements []entity.DiscoveredElement, expectedResult string) string {
	byStep := make(map[int]entity.DiscoveredElement, len(elements))
	for _, el := range elements {
		if el.StepNumber != 0 {
			byStep[el.StepNumber] = el
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `/**
 * Test: %s
 * Generated by Nexus QA - Test Architect
 * Date: %s
 */

import { test, expect } from '@playwright/test';

test('%s', async ({ page }) => {
`, title, g.now().Format("2006-01-02 15:04:05"), title)

	for _, step := range steps {
		lower := strings.ToLower(step.Action)
		fmt.Fprintf(&b, "\n  // Step %d: %s\n", step.Number, step.Action)

		el, found := byStep[step.Number]
		_, navigate := containsAny(lower, navigateWords)
		switch {
		case navigate || step.Number == 1:
			fmt.Fprintf(&b, "  await page.goto('%s');\n  await page.waitForLoadState('domcontentloaded');\n", baseURL)
		case found:
			writeElementStep(&b, step, el)
		default:
			writeTodoStep(&b, lower)
		}
	}

	if expectedResult != "" {
		fmt.Fprintf(&b, "\n  // Verify: %s\n  // TODO: Add assertion\n", expectedResult)
	}
	b.WriteString("\n});\n")
	return b.String()
}

func writeElementStep(b *strings.Builder, step entity.Step, el entity.DiscoveredElement) {
	actionType := el.ActionType
	if actionType == "" {
		actionType = "click"
	}
	switch actionType {
	case "fill":
		value := "test"
		if m := quotedValue.FindStringSubmatch(step.Action); m != nil {
			value = m[1]
		}
		fmt.Fprintf(b, "  await page.fill('%s', '%s');\n", el.Selector, value)
	case "click":
		fmt.Fprintf(b, "  await page.click('%s');\n  await page.waitForLoadState('domcontentloaded');\n", el.Selector)
	default:
		fmt.Fprintf(b, "  await page.locator('%s').%s();\n", el.Selector, actionType)
	}
}

func writeTodoStep(b *strings.Builder, lower string) {
	if _, ok := containsAny(lower, clickWords); ok {
		b.WriteString("  // TODO: Add specific selector for click action\n  // await page.click('SELECTOR_HERE');\n")
		return
	}
	if _, ok := containsAny(lower, searchWords); ok {
		b.WriteString("  // TODO: Add search input selector and search term\n  // await page.fill('SEARCH_INPUT_SELECTOR', 'search term');\n")
		return
	}
	if _, ok := containsAny(lower, inputWords); ok {
		b.WriteString("  // TODO: Add input selector and value\n  // await page.fill('INPUT_SELECTOR', 'value');\n")
		return
	}
	b.WriteString("  // TODO: Implement this step\n")
}
