package mcp

import (
	"context"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

func (s *Server) registerCatalogTools() {
	// get_channels — message channels.
	s.addTool(
		mcplib.NewTool("get_channels",
			mcplib.WithDescription("List the project's message channels with their IDs, names, and media."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		s.handleGetChannels,
	)

	// get_message_types — message types per channel.
	s.addTool(
		mcplib.NewTool("get_message_types",
			mcplib.WithDescription("List the project's message types and the channels they belong to."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		s.handleGetMessageTypes,
	)

	// get_journeys — journey (workflow) catalog.
	s.addTool(
		mcplib.NewTool("get_journeys",
			mcplib.WithDescription("List the project's journeys with their IDs, names, and states."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		s.handleGetJourneys,
	)

	// trigger_journey — enter a user into a journey.
	s.addTool(
		mcplib.NewTool("trigger_journey",
			mcplib.WithDescription(`Trigger a journey for a user or a list. Journeys can send messages at
any of their steps, so this requires the send permission.`),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithNumber("journey_id",
				mcplib.Description("ID of the journey (workflow) to trigger"),
				mcplib.Required(),
			),
			mcplib.WithString("email",
				mcplib.Description("Email of the user to enter (email or list_id required)"),
			),
			mcplib.WithNumber("list_id",
				mcplib.Description("ID of a list whose members all enter the journey (email or list_id required)"),
			),
			mcplib.WithObject("data_fields",
				mcplib.Description("Data fields available to the journey's steps"),
			),
		),
		s.handleTriggerJourney,
	)
}

func (s *Server) handleGetChannels(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/channels",
	})
}

func (s *Server) handleGetMessageTypes(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/messageTypes",
	})
}

func (s *Server) handleGetJourneys(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/journeys",
	})
}

func (s *Server) handleTriggerJourney(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	journeyID := request.GetInt("journey_id", 0)
	if journeyID == 0 {
		return errorResult("journey_id is required"), nil
	}
	email := request.GetString("email", "")
	listID := request.GetInt("list_id", 0)
	if email == "" && listID == 0 {
		return errorResult("either email or list_id is required"), nil
	}

	body := map[string]any{"workflowId": journeyID}
	if email != "" {
		body["email"] = email
	}
	if listID != 0 {
		body["listId"] = listID
	}
	if df, ok := request.GetArguments()["data_fields"]; ok {
		body["dataFields"] = df
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/workflows/triggerWorkflow",
		Body:   body,
	})
}
