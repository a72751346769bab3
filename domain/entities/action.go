package entities

import "time"

// ActionType represents the kind of driver call recorded in a journal
type ActionType string

const (
	ActionNavigate          ActionType = "navigate"
	ActionFind              ActionType = "find"
	ActionClick             ActionType = "click"
	ActionTypeText          ActionType = "type"
	ActionKey               ActionType = "key"
	ActionWait              ActionType = "wait"
	ActionPause             ActionType = "pause"
	ActionAssertContains    ActionType = "assert_contains"
	ActionAssertNotContains ActionType = "assert_not_contains"
	ActionAssertAbsent      ActionType = "assert_absent"
	ActionScreenshot        ActionType = "screenshot"
)

// Step represents a single driver call and its outcome
type Step struct {
	Action   ActionType    `json:"action"`
	Selector string        `json:"selector,omitempty"`
	Text     string        `json:"text,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Journal is the record of one scenario run
type Journal struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Steps      []Step    `json:"steps"`
	Passed     bool      `json:"passed"`
	Error      string    `json:"error,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
}
