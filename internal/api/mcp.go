package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vcidst/demo-bank/internal/chat"
	"github.com/vcidst/demo-bank/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *storage.Store
	Chat  *chat.Service
}

// NewMCPServer creates an MCP server exposing the demo-bank chat surface as
// tools, so agent tooling can drive the demo end to end: send a message,
// read the conversation tracker, and inspect stored chat history.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"demobank",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("demo-bank — banking chat demo backed by a Rasa assistant."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("send_message",
			mcp.WithDescription("Relay a message to the banking assistant on behalf of a user and return the reply."),
			mcp.WithNumber("user_id", mcp.Description("Numeric id of the user sending the message"), mcp.Required()),
			mcp.WithString("message", mcp.Description("The message text"), mcp.Required()),
		),
		mcpSendMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("get_tracker",
			mcp.WithDescription("Fetch and normalize the assistant's conversation tracker: typed timeline, filtered slots, and the raw document."),
			mcp.WithString("conversation_id", mcp.Description("Conversation identifier (the sender id used with the assistant)"), mcp.Required()),
			mcp.WithString("include_events", mcp.Description("Event filter passed to the assistant (default ALL; empty omits the filter)")),
		),
		mcpGetTracker(deps),
	)

	s.AddTool(
		mcp.NewTool("chat_history",
			mcp.WithDescription("Return a user's stored chat exchanges, newest first."),
			mcp.WithNumber("user_id", mcp.Description("Numeric id of the user"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of exchanges (default 50)")),
		),
		mcpChatHistory(deps),
	)

	return s
}

func mcpSendMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireInt("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		reply, err := deps.Chat.Relay(ctx, int64(userID), message)
		if err != nil {
			return mcpError(fmt.Sprintf("relay failed: %v", err)), nil
		}
		return mcpText(reply), nil
	}
}

func mcpGetTracker(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversationID, err := req.RequireString("conversation_id")
		if err != nil {
			return mcpError("conversation_id is required"), nil
		}
		includeEvents := req.GetString("include_events", "ALL")

		view, err := deps.Chat.ConversationTracker(ctx, conversationID, includeEvents)
		if err != nil {
			return mcpError(fmt.Sprintf("tracker fetch failed: %v", err)), nil
		}

		b, err := json.Marshal(view)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal tracker: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpChatHistory(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireInt("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		limit := req.GetInt("limit", 50)
		if limit <= 0 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}

		messages, err := deps.Store.ChatHistory(int64(userID), limit)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to load chat history: %v", err)), nil
		}
		if messages == nil {
			messages = []storage.ChatMessage{}
		}

		b, err := json.Marshal(messages)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal history: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
