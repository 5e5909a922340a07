// Package mcpserver serves the registered tools over the Model Context
// Protocol on stdio.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/logger"
	"github.com/comigor/tradutor-go/pkg/tools"
)

const serverName = "tradutor"

// New builds an MCP server exposing every tool in m.
func New(m *tools.ToolManager, version string) *server.MCPServer {
	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(false), server.WithRecovery())
	for _, t := range m.List() {
		s.AddTool(Definition(t), Handler(t))
		logger.L.Debug("registered MCP tool", "tool", t.Name())
	}
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(m *tools.ToolManager, version string) error {
	return server.ServeStdio(New(m, version))
}

// Definition converts a tool's metadata into an MCP tool schema.
func Definition(t tools.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description())}
	for _, p := range t.Params() {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Type {
		case tools.ParamBoolean:
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		case tools.ParamNumber:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(t.Name(), opts...)
}

// Handler adapts a tool to an MCP call handler. Tool errors become error
// results so the client sees the user-facing message.
func Handler(t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger.L.Info("MCP tool invoked", "tool", t.Name())
		out, err := t.Run(ctx, req.GetArguments())
		if err != nil {
			logger.L.Warn("MCP tool failed", "tool", t.Name(), "error", err)
			return mcp.NewToolResultError(app.UserMessage(err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
