package mcp

import (
	"context"
	"net/http"
	"net/url"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

func (s *Server) registerEventTools() {
	// track_event — custom event ingestion.
	s.addTool(
		mcplib.NewTool("track_event",
			mcplib.WithDescription(`Track a custom event for a user. Events can trigger journeys and are
available for segmentation and campaign analytics.`),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithString("event_name",
				mcplib.Description("Name of the event"),
				mcplib.Required(),
			),
			mcplib.WithString("email",
				mcplib.Description("Email identifying the user (email or user_id required)"),
			),
			mcplib.WithString("user_id",
				mcplib.Description("userId identifying the user (email or user_id required)"),
			),
			mcplib.WithObject("data_fields",
				mcplib.Description("Event payload, as a JSON object"),
			),
			mcplib.WithNumber("created_at",
				mcplib.Description("Event time as a Unix timestamp in seconds (defaults to now)"),
			),
		),
		s.handleTrackEvent,
	)

	// track_bulk_events — batched ingestion.
	s.addTool(
		mcplib.NewTool("track_bulk_events",
			mcplib.WithDescription("Track up to 1000 events in one call. Each entry needs eventName plus an email or userId."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithArray("events",
				mcplib.Description("Array of event objects: {eventName, email?, userId?, dataFields?, createdAt?}"),
				mcplib.Required(),
			),
		),
		s.handleTrackBulkEvents,
	)

	// get_user_events — per-user event history.
	s.addTool(
		mcplib.NewTool("get_user_events",
			mcplib.WithDescription("Get a user's recent events, newest first."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithString("email",
				mcplib.Description("Email address of the user"),
				mcplib.Required(),
			),
			mcplib.WithNumber("limit",
				mcplib.Description("Maximum events to return"),
				mcplib.Min(1),
				mcplib.Max(200),
				mcplib.DefaultNumber(30),
			),
		),
		s.handleGetUserEvents,
	)
}

func (s *Server) handleTrackEvent(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	eventName := request.GetString("event_name", "")
	if eventName == "" {
		return errorResult("event_name is required"), nil
	}
	email := request.GetString("email", "")
	userID := request.GetString("user_id", "")
	if email == "" && userID == "" {
		return errorResult("either email or user_id is required"), nil
	}

	body := map[string]any{"eventName": eventName}
	if email != "" {
		body["email"] = email
	}
	if userID != "" {
		body["userId"] = userID
	}
	if df, ok := request.GetArguments()["data_fields"]; ok {
		body["dataFields"] = df
	}
	if at := request.GetInt("created_at", 0); at != 0 {
		body["createdAt"] = at
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/events/track",
		Body:   body,
	})
}

func (s *Server) handleTrackBulkEvents(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	events, ok := request.GetArguments()["events"].([]any)
	if !ok || len(events) == 0 {
		return errorResult("events is required and must be a non-empty array"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/events/trackBulk",
		Body:   map[string]any{"events": events},
	})
}

func (s *Server) handleGetUserEvents(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	email := request.GetString("email", "")
	if email == "" {
		return errorResult("email is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/events/" + url.PathEscape(email),
		Query:  iterable.Query{"limit": request.GetInt("limit", 30)},
	})
}
