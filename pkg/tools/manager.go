package tools

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrToolNotFound is returned by GetTool for unknown names.
	ErrToolNotFound = errors.New("tool not found")
	// ErrDuplicateTool is returned when a name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
)

// ToolManager is the registry surfaces read their tools from.
type ToolManager struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewToolManager creates an empty registry.
func NewToolManager() *ToolManager {
	return &ToolManager{
		tools: make(map[string]Tool),
	}
}

// RegisterTool adds tool under its name.
func (m *ToolManager) RegisterTool(tool Tool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tools[tool.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name())
	}
	m.tools[tool.Name()] = tool
	return nil
}

// GetTool retrieves a tool by name.
func (m *ToolManager) GetTool(name string) (Tool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tool, ok := m.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// List returns every tool ordered by name, so schemas are listed stably.
func (m *ToolManager) List() []Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ts := make([]Tool, 0, len(m.tools))
	for _, t := range m.tools {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Name() < ts[j].Name() })
	return ts
}
