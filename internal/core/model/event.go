package model

// Event kinds produced by the normalizer.
const (
	KindSessionEnd    = "session_end"
	KindMessage       = "message"
	KindToolCall      = "tool_call"
	KindCommit        = "commit"
	KindSubagentSpawn = "subagent_spawn"
)

// Tools whose invocations count as file edits.
var editTools = map[string]bool{
	"Edit":         true,
	"Write":        true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

// EventRecord is the canonical unit of activity delivered by the normalizer.
// Records are immutable; the core never mutates one.
type EventRecord struct {
	Uuid          string `json:"uuid"`
	Timestamp     int64  `json:"timestamp"` // Unix seconds
	Kind          string `json:"kind"`
	ProjectId     string `json:"projectId,omitempty"`
	SessionId     string `json:"sessionId"`
	ToolName      string `json:"toolName,omitempty"`      // set for tool_call
	ToolCallCount int    `json:"toolCallCount,omitempty"` // set for session_end
}

// ValidKind reports whether the kind is one the core understands.
func ValidKind(kind string) bool {
	switch kind {
	case KindSessionEnd, KindMessage, KindToolCall, KindCommit, KindSubagentSpawn:
		return true
	}
	return false
}

// IsEditTool reports whether a tool_call event counts as a file edit.
func IsEditTool(name string) bool {
	return editTools[name]
}
