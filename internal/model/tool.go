package model

import (
	"fmt"
	"strings"
)

// Tool identifies an external accessibility analyzer.
type Tool string

const (
	// ToolPa11y is the pa11y DOM-rule linter.
	ToolPa11y Tool = "pa11y"

	// ToolAxe is the axe-core accessibility-tree linter.
	ToolAxe Tool = "axe"

	// ToolLighthouse is the Lighthouse accessibility auditor.
	ToolLighthouse Tool = "lighthouse"
)

// Tools returns all tools in priority order.
// When the same defect is reported by several tools, the first tool in this
// order is the one kept in the combined list.
func Tools() []Tool {
	return []Tool{ToolPa11y, ToolAxe, ToolLighthouse}
}

// String returns the tool name.
func (t Tool) String() string {
	return string(t)
}

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolPa11y, ToolAxe, ToolLighthouse:
		return true
	default:
		return false
	}
}

// PayloadKey returns the key under which the tool's raw result is stored
// in a result-file entry.
func (t Tool) PayloadKey() string {
	switch t {
	case ToolPa11y:
		return "results"
	case ToolAxe:
		return "axe_result"
	case ToolLighthouse:
		return "lighthouse_result"
	default:
		return "result"
	}
}

// ParseTool converts a tool name to a Tool. Matching is case-insensitive.
func ParseTool(name string) (Tool, error) {
	t := Tool(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tool %q (expected pa11y, axe or lighthouse)", name)
	}
	return t, nil
}

// ParseTools converts a list of tool names, preserving priority order and
// dropping duplicates.
func ParseTools(names []string) ([]Tool, error) {
	selected := make(map[Tool]bool, len(names))
	for _, name := range names {
		t, err := ParseTool(name)
		if err != nil {
			return nil, err
		}
		selected[t] = true
	}

	tools := make([]Tool, 0, len(selected))
	for _, t := range Tools() {
		if selected[t] {
			tools = append(tools, t)
		}
	}
	return tools, nil
}
