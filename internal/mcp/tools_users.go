package mcp

import (
	"context"
	"net/http"
	"net/url"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

func (s *Server) registerUserTools() {
	// get_user_by_email — full user profile lookup.
	s.addTool(
		mcplib.NewTool("get_user_by_email",
			mcplib.WithDescription(`Look up a user's full Iterable profile by email address.

Returns the complete profile including dataFields, so the result contains
whatever PII the project stores. Requires the PII permission.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithString("email",
				mcplib.Description("Email address of the user to look up"),
				mcplib.Required(),
			),
		),
		s.handleGetUserByEmail,
	)

	// get_user_by_id — profile lookup by userId.
	s.addTool(
		mcplib.NewTool("get_user_by_id",
			mcplib.WithDescription("Look up a user's full Iterable profile by userId. Returns the complete profile including dataFields."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithString("user_id",
				mcplib.Description("The userId of the user to look up"),
				mcplib.Required(),
			),
		),
		s.handleGetUserByID,
	)

	// update_user — upsert profile data fields.
	s.addTool(
		mcplib.NewTool("update_user",
			mcplib.WithDescription(`Create or update a user profile. Existing dataFields are merged with
the supplied ones; the response is a bare status code, no profile data.`),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithString("email",
				mcplib.Description("Email address identifying the user (email or user_id required)"),
			),
			mcplib.WithString("user_id",
				mcplib.Description("userId identifying the user (email or user_id required)"),
			),
			mcplib.WithObject("data_fields",
				mcplib.Description("Profile fields to set, as a JSON object"),
			),
			mcplib.WithBoolean("merge_nested_objects",
				mcplib.Description("Merge nested objects instead of replacing them"),
			),
		),
		s.handleUpdateUser,
	)

	// delete_user — permanent removal.
	s.addTool(
		mcplib.NewTool("delete_user",
			mcplib.WithDescription("Delete a user and all associated data by email address. This cannot be undone."),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithString("email",
				mcplib.Description("Email address of the user to delete"),
				mcplib.Required(),
			),
		),
		s.handleDeleteUser,
	)

	// bulk_update_users — batched profile upserts.
	s.addTool(
		mcplib.NewTool("bulk_update_users",
			mcplib.WithDescription("Create or update up to 50 user profiles in one call. Each entry needs an email or userId plus dataFields."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithArray("users",
				mcplib.Description("Array of user objects: {email?, userId?, dataFields?}"),
				mcplib.Required(),
			),
		),
		s.handleBulkUpdateUsers,
	)

	// forget_user — GDPR forget.
	s.addTool(
		mcplib.NewTool("forget_user",
			mcplib.WithDescription("Forget a user under GDPR: deletes the profile and suppresses future data collection for the email."),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithString("email",
				mcplib.Description("Email address of the user to forget"),
				mcplib.Required(),
			),
		),
		s.handleForgetUser,
	)

	// get_user_fields — project field schema, no user data.
	s.addTool(
		mcplib.NewTool("get_user_fields",
			mcplib.WithDescription("List the project's user profile field names and types. Contains no user data."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		s.handleGetUserFields,
	)

	// get_sent_messages — per-user send history.
	s.addTool(
		mcplib.NewTool("get_sent_messages",
			mcplib.WithDescription("List messages sent to a user, optionally filtered by campaign, medium, and date range."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithString("email",
				mcplib.Description("Email address of the user"),
				mcplib.Required(),
			),
			mcplib.WithNumber("limit",
				mcplib.Description("Maximum messages to return"),
				mcplib.Min(1),
				mcplib.Max(1000),
				mcplib.DefaultNumber(10),
			),
			mcplib.WithArray("campaign_ids",
				mcplib.Description("Only messages from these campaign IDs"),
			),
			mcplib.WithString("start_date_time",
				mcplib.Description("Only messages sent at or after this time (ISO 8601)"),
			),
			mcplib.WithString("end_date_time",
				mcplib.Description("Only messages sent before this time (ISO 8601)"),
			),
			mcplib.WithBoolean("exclude_blast_campaigns",
				mcplib.Description("Exclude blast campaign sends"),
			),
			mcplib.WithString("message_medium",
				mcplib.Description("Filter by medium: Email, Push, InApp, or SMS"),
			),
		),
		s.handleGetSentMessages,
	)
}

func (s *Server) handleGetUserByEmail(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	email := request.GetString("email", "")
	if email == "" {
		return errorResult("email is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/users/getByEmail",
		Query:  iterable.Query{"email": email},
	})
}

func (s *Server) handleGetUserByID(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	userID := request.GetString("user_id", "")
	if userID == "" {
		return errorResult("user_id is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/users/byUserId/" + url.PathEscape(userID),
	})
}

func (s *Server) handleUpdateUser(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	email := request.GetString("email", "")
	userID := request.GetString("user_id", "")
	if email == "" && userID == "" {
		return errorResult("either email or user_id is required"), nil
	}

	body := map[string]any{}
	if email != "" {
		body["email"] = email
	}
	if userID != "" {
		body["userId"] = userID
	}
	args := request.GetArguments()
	if df, ok := args["data_fields"]; ok {
		body["dataFields"] = df
	}
	if request.GetBool("merge_nested_objects", false) {
		body["mergeNestedObjects"] = true
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/users/update",
		Body:   body,
	})
}

func (s *Server) handleDeleteUser(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	email := request.GetString("email", "")
	if email == "" {
		return errorResult("email is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodDelete,
		Path:   "/api/users/" + url.PathEscape(email),
	})
}

func (s *Server) handleBulkUpdateUsers(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	users, ok := request.GetArguments()["users"].([]any)
	if !ok || len(users) == 0 {
		return errorResult("users is required and must be a non-empty array"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/users/bulkUpdate",
		Body:   map[string]any{"users": users},
	})
}

func (s *Server) handleForgetUser(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	email := request.GetString("email", "")
	if email == "" {
		return errorResult("email is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/users/forget",
		Body:   map[string]any{"email": email},
	})
}

func (s *Server) handleGetUserFields(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/users/getFields",
	})
}

func (s *Server) handleGetSentMessages(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	email := request.GetString("email", "")
	if email == "" {
		return errorResult("email is required"), nil
	}

	query := iterable.Query{
		"email": email,
		"limit": request.GetInt("limit", 10),
	}
	if ids := numberSlice(request.GetArguments(), "campaign_ids"); len(ids) > 0 {
		query["campaignIds"] = ids
	}
	if v := request.GetString("start_date_time", ""); v != "" {
		query["startDateTime"] = v
	}
	if v := request.GetString("end_date_time", ""); v != "" {
		query["endDateTime"] = v
	}
	if request.GetBool("exclude_blast_campaigns", false) {
		query["excludeBlastCampaigns"] = true
	}
	if v := request.GetString("message_medium", ""); v != "" {
		query["messageMedium"] = v
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/users/getSentMessages",
		Query:  query,
	})
}
