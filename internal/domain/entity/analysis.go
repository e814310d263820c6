package entity

// Entity is a tagged noun found in requirement text
type Entity struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Position int    `json:"position"`
}

// Action is an action category matched in one sentence
type Action struct {
	Type     string `json:"type"`
	Keyword  string `json:"keyword"`
	Sentence string `json:"sentence"`
	Order    int    `json:"order"`
}

// Sentiment holds lexicon polarity scores
type Sentiment struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Compound float64 `json:"compound"`
}

// UserFlow is a run of step sentences introduced by a flow sentence
type UserFlow struct {
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// RiskBucket is one severity level with the keywords that hit it
type RiskBucket struct {
	Level    Priority `json:"level"`
	Keywords []string `json:"keywords"`
}

// Analysis is the intermediate analyzer output used to seed scenarios
type Analysis struct {
	Entities  []Entity     `json:"entities"`
	Actions   []Action     `json:"actions"`
	Risks     []RiskBucket `json:"risks"`
	Sentiment Sentiment    `json:"sentiment"`
	TestTypes []string     `json:"test_types"`
	EdgeCases []string     `json:"edge_cases"`
	UserFlows []UserFlow   `json:"user_flows"`
}
