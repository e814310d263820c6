package entity

// Agent types accepted by POST /run
const (
	AgentOrchestrator    = "orchestrator"
	AgentTestArchitect   = "test_architect"
	AgentDeveloper       = "developer"
	AgentSecurityAnalyst = "security_analyst"
	AgentReportAnalyst   = "report_analyst"
)

// Agent is a named LLM persona
// Title and Description are what the agent listing shows; Role, Goal and
// Backstory make up the system prompt.
type Agent struct {
	Key             string `json:"id" yaml:"key"`
	Name            string `json:"name" yaml:"name"`
	Title           string `json:"role" yaml:"title"`
	Type            string `json:"type" yaml:"type"`
	Description     string `json:"description" yaml:"description"`
	Role            string `json:"-" yaml:"role"`
	Goal            string `json:"-" yaml:"goal"`
	Backstory       string `json:"-" yaml:"backstory"`
	AllowDelegation bool   `json:"-" yaml:"allow_delegation"`
	Listed          bool   `json:"-" yaml:"listed"`
}

// SystemPrompt renders the persona as a system message
func (a *Agent) SystemPrompt() string {
	return "Role: " + a.Role + "\nGoal: " + a.Goal + "\n\n" + a.Backstory
}
