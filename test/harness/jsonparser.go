package harness

import (
	"encoding/json"
	"strings"
)

// MessageType represents the type of JSON message emitted by teams-cache-clear
type MessageType string

const (
	TypeStateChanged     MessageType = "state-changed"
	TypeTargetDiscovered MessageType = "target-discovered"
	TypeStatusChanged    MessageType = "status-changed"
	TypeProcessKilled    MessageType = "process-killed"
	TypeProcessRestarted MessageType = "process-restarted"
	TypeRunComplete      MessageType = "run-complete"
	TypeLog              MessageType = "log"
)

// Message represents a parsed JSON message from teams-cache-clear stdout
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type StateChangedPayload struct {
	State string `json:"state"`
}

type TargetDiscoveredPayload struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Variant string `json:"variant"`
	Status  string `json:"status"`
}

type StatusChangedPayload struct {
	RunID  string `json:"runId"`
	Path   string `json:"path"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type OutcomePayload struct {
	Target struct {
		DisplayName string `json:"displayName"`
		Path        string `json:"path"`
		Variant     string `json:"variant"`
	} `json:"target"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type SummaryPayload struct {
	Success  int `json:"success"`
	Timeout  int `json:"timeout"`
	Failed   int `json:"failed"`
	NotFound int `json:"notFound"`
	Pending  int `json:"pending"`
}

// RunCompletePayload is the last message of a run
type RunCompletePayload struct {
	ID       string           `json:"id"`
	Elapsed  float64          `json:"elapsed"`
	Summary  SummaryPayload   `json:"summary"`
	Detached int64            `json:"detached"`
	Outcomes []OutcomePayload `json:"outcomes"`
}

// LogPayload contains log messages
type LogPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ParseMessage parses a single line of JSON output
func ParseMessage(line string) (Message, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "{") {
		return Message{}, false
	}

	var msg Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return Message{}, false
	}

	return msg, true
}

func decode[T any](m Message, t MessageType) (*T, bool) {
	if m.Type != t {
		return nil, false
	}
	var p T
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (m Message) GetStateChangedPayload() (*StateChangedPayload, bool) {
	return decode[StateChangedPayload](m, TypeStateChanged)
}

func (m Message) GetTargetDiscoveredPayload() (*TargetDiscoveredPayload, bool) {
	return decode[TargetDiscoveredPayload](m, TypeTargetDiscovered)
}

func (m Message) GetStatusChangedPayload() (*StatusChangedPayload, bool) {
	return decode[StatusChangedPayload](m, TypeStatusChanged)
}

func (m Message) GetRunCompletePayload() (*RunCompletePayload, bool) {
	return decode[RunCompletePayload](m, TypeRunComplete)
}

// GetLogPayload extracts the payload for log messages
func (m Message) GetLogPayload() (*LogPayload, bool) {
	return decode[LogPayload](m, TypeLog)
}

// HasMessageType checks if the result contains a message of the given type
func (r *Result) HasMessageType(t MessageType) bool {
	for _, msg := range r.Messages {
		if msg.Type == t {
			return true
		}
	}
	return false
}

// GetFirstMessageOfType returns the first message of the given type
func (r *Result) GetFirstMessageOfType(t MessageType) *Message {
	for _, msg := range r.Messages {
		if msg.Type == t {
			return &msg
		}
	}
	return nil
}

// GetAllMessagesOfType returns all messages of the given type
func (r *Result) GetAllMessagesOfType(t MessageType) []Message {
	var result []Message
	for _, msg := range r.Messages {
		if msg.Type == t {
			result = append(result, msg)
		}
	}
	return result
}

// RunComplete returns the run-complete payload, if one was emitted
func (r *Result) RunComplete() (*RunCompletePayload, bool) {
	msg := r.GetFirstMessageOfType(TypeRunComplete)
	if msg == nil {
		return nil, false
	}
	return msg.GetRunCompletePayload()
}

// States returns the sequence of states the runner went through
func (r *Result) States() []string {
	var states []string
	for _, msg := range r.GetAllMessagesOfType(TypeStateChanged) {
		if p, ok := msg.GetStateChangedPayload(); ok {
			states = append(states, p.State)
		}
	}
	return states
}
