// Package output renders command results for terminals, pipes and scripts.
package output

import "strings"

// OutputMode selects how a Renderer formats command output.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"     // text on a TTY, markdown otherwise
	ModeText     OutputMode = "text"     // styled terminal output
	ModeMarkdown OutputMode = "markdown" // plain markdown for pipes and agents
	ModeJSON     OutputMode = "json"     // machine readable
)

// Mode parses an output format name. Unknown or empty names mean ModeAuto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}
