package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexusqa/agents/internal/domain/entity"
	"github.com/nexusqa/agents/internal/infrastructure/llm"
	"github.com/nexusqa/agents/pkg/errors"
	"github.com/nexusqa/agents/pkg/logger"
)

const playwrightCode = "import { test, expect } from '@playwright/test';\n\ntest('login', async ({ page }) => {\n  await page.goto('/');\n});"

func newAutomation(t *testing.T, client llm.Client) AutomationUseCase {
	t.Helper()
	return NewAutomationUseCase(client, testLLMConfig(), testPersonas(t), "http://localhost:3000", 2, logger.NewNop())
}

func TestGenerateFromScenarioStripsFences(t *testing.T) {
	client := newMockLLM()
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.ChatRequest) bool {
		return req.Format == llm.FormatCode && req.System != "" && req.Scenario != nil
	})).Return(completion("Here is the test:\n```typescript\n"+playwrightCode+"\n```", 200, 400), nil)

	res, err := newAutomation(t, client).GenerateFromScenario(context.Background(),
		&entity.Scenario{ID: "42", Title: "Giriş"}, llm.SuiteInfo{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, playwrightCode, res.Code)
	assert.Equal(t, entity.AutomationUI, res.AutomationType)
	assert.Equal(t, entity.ScenarioID("42"), res.ScenarioID)
	assert.Equal(t, "Giriş", res.ScenarioTitle)
	assert.Greater(t, res.Cost, 0.0)
	client.AssertExpectations(t)
}

func TestGenerateFromScenarioEmptyCode(t *testing.T) {
	client := newMockLLM()
	client.On("Complete", mock.Anything, mock.Anything).Return(completion("   ", 0, 0), nil)

	_, err := newAutomation(t, client).GenerateFromScenario(context.Background(),
		&entity.Scenario{Title: "Giriş"}, llm.SuiteInfo{})
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrExternalService, appErr.Code)
}

func TestGenerateBatchReportsPartialFailure(t *testing.T) {
	client := newMockLLM()
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.ChatRequest) bool {
		return req.Scenario != nil && strings.HasPrefix(req.Scenario.Title, "ok")
	})).Return(completion(playwrightCode, 0, 0), nil)
	client.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.ChatRequest) bool {
		return req.Scenario != nil && req.Scenario.Title == "broken"
	})).Return(nil, errors.NewExternalService("openai", "upstream failed"))

	scenarios := []entity.Scenario{
		{ID: "7", Title: "ok first"},
		{Title: "broken", AutomationType: entity.AutomationAPI},
		{Title: "ok third"},
	}
	res := newAutomation(t, client).GenerateBatch(context.Background(), scenarios, llm.SuiteInfo{})

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Successful)
	require.Len(t, res.Results, 3)

	assert.True(t, res.Results["7"].Success)
	assert.True(t, res.Results["3"].Success)

	failed := res.Results["2"]
	require.NotNil(t, failed)
	assert.False(t, failed.Success)
	assert.Equal(t, entity.AutomationAPI, failed.AutomationType)
	assert.Contains(t, failed.Error, "upstream failed")
}

func TestGenerateBatchKeepsCollidingKeys(t *testing.T) {
	client := newMockLLM()
	client.On("Complete", mock.Anything, mock.Anything).Return(completion(playwrightCode, 0, 0), nil)

	scenarios := []entity.Scenario{
		{Title: "unnamed"},
		{ID: "1", Title: "one"},
		{ID: "7", Title: "seven"},
		{ID: "7", Title: "seven again"},
	}
	res := newAutomation(t, client).GenerateBatch(context.Background(), scenarios, llm.SuiteInfo{})

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 4, res.Successful)
	require.Len(t, res.Results, 4)
	assert.Equal(t, "unnamed", res.Results["1"].ScenarioTitle)
	assert.Equal(t, "one", res.Results["1-2"].ScenarioTitle)
	assert.Equal(t, "seven", res.Results["7"].ScenarioTitle)
	assert.Equal(t, "seven again", res.Results["7-2"].ScenarioTitle)
}

func TestBatchKeys(t *testing.T) {
	got := batchKeys([]entity.Scenario{{ID: "2"}, {}, {ID: "2"}, {ID: "2-2"}})
	assert.Equal(t, []string{"2", "2-2", "2-3", "2-2-2"}, got)
}

func TestGenerateBatchEmpty(t *testing.T) {
	res := newAutomation(t, newMockLLM()).GenerateBatch(context.Background(), nil, llm.SuiteInfo{})
	assert.True(t, res.Success)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Results)
}
