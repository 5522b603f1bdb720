package mcp

import (
	"context"
	"fmt"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

func (s *Server) registerListTools() {
	// get_lists — all lists in the project.
	s.addTool(
		mcplib.NewTool("get_lists",
			mcplib.WithDescription("List all lists in the project with their IDs, names, and types."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		s.handleGetLists,
	)

	// create_list — new static list.
	s.addTool(
		mcplib.NewTool("create_list",
			mcplib.WithDescription("Create a new static list. Returns the new list's ID."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithString("name",
				mcplib.Description("Name for the new list"),
				mcplib.Required(),
			),
			mcplib.WithString("description",
				mcplib.Description("Optional description of the list"),
			),
		),
		s.handleCreateList,
	)

	// delete_list — remove a list (not its members).
	s.addTool(
		mcplib.NewTool("delete_list",
			mcplib.WithDescription("Delete a list by ID. Users on the list are not deleted, only the list itself."),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithNumber("list_id",
				mcplib.Description("ID of the list to delete"),
				mcplib.Required(),
			),
		),
		s.handleDeleteList,
	)

	// get_list_users — membership as emails.
	s.addTool(
		mcplib.NewTool("get_list_users",
			mcplib.WithDescription(`Get the email addresses of every user on a list.

The upstream endpoint answers with newline-delimited plain text; the result
here is normalized to {"users": [{"email": ...}, ...]}. Large lists return
large results — check get_list_size first.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithNumber("list_id",
				mcplib.Description("ID of the list"),
				mcplib.Required(),
			),
		),
		s.handleGetListUsers,
	)

	// get_list_size — member count.
	s.addTool(
		mcplib.NewTool("get_list_size",
			mcplib.WithDescription("Get the number of users on a list. The result is {\"size\": n}."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithNumber("list_id",
				mcplib.Description("ID of the list"),
				mcplib.Required(),
			),
		),
		s.handleGetListSize,
	)

	// subscribe_to_list — add users.
	s.addTool(
		mcplib.NewTool("subscribe_to_list",
			mcplib.WithDescription("Subscribe users to a static list. Subscribers are identified by email."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithNumber("list_id",
				mcplib.Description("ID of the list to subscribe to"),
				mcplib.Required(),
			),
			mcplib.WithArray("subscribers",
				mcplib.Description("Array of subscriber objects: {email, dataFields?}"),
				mcplib.Required(),
			),
		),
		s.handleSubscribeToList,
	)

	// unsubscribe_from_list — remove users.
	s.addTool(
		mcplib.NewTool("unsubscribe_from_list",
			mcplib.WithDescription("Unsubscribe users from a static list."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithNumber("list_id",
				mcplib.Description("ID of the list to unsubscribe from"),
				mcplib.Required(),
			),
			mcplib.WithArray("subscribers",
				mcplib.Description("Array of subscriber objects: {email}"),
				mcplib.Required(),
			),
		),
		s.handleUnsubscribeFromList,
	)
}

func (s *Server) handleGetLists(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/lists",
	})
}

func (s *Server) handleCreateList(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}
	body := map[string]any{"name": name}
	if desc := request.GetString("description", ""); desc != "" {
		body["description"] = desc
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/lists",
		Body:   body,
	})
}

func (s *Server) handleDeleteList(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	listID := request.GetInt("list_id", 0)
	if listID == 0 {
		return errorResult("list_id is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/lists/%d", listID),
	})
}

func (s *Server) handleGetListUsers(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	listID := request.GetInt("list_id", 0)
	if listID == 0 {
		return errorResult("list_id is required"), nil
	}

	res, err := s.upstream(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/lists/getUsers",
		Query:  iterable.Query{"listId": listID},
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	// Newline-delimited text arrives as a raw string; an empty list arrives
	// as an empty body. Either way the caller sees the same typed shape.
	if text, ok := res.(string); ok {
		return jsonResult(iterable.ParseEmailList(text)), nil
	}
	return jsonResult(iterable.EmailListResult{Users: []iterable.ListUser{}}), nil
}

func (s *Server) handleGetListSize(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	listID := request.GetInt("list_id", 0)
	if listID == 0 {
		return errorResult("list_id is required"), nil
	}

	res, err := s.upstream(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/lists/%d/size", listID),
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	size, err := iterable.ParseSize(res)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return jsonResult(size), nil
}

func (s *Server) handleSubscribeToList(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.listMembership(ctx, request, "/api/lists/subscribe")
}

func (s *Server) handleUnsubscribeFromList(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.listMembership(ctx, request, "/api/lists/unsubscribe")
}

// listMembership is the shared body for subscribe/unsubscribe: same shape,
// different endpoint.
func (s *Server) listMembership(ctx context.Context, request mcplib.CallToolRequest, path string) (*mcplib.CallToolResult, error) {
	listID := request.GetInt("list_id", 0)
	if listID == 0 {
		return errorResult("list_id is required"), nil
	}
	subscribers, ok := request.GetArguments()["subscribers"].([]any)
	if !ok || len(subscribers) == 0 {
		return errorResult("subscribers is required and must be a non-empty array"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   path,
		Body: map[string]any{
			"listId":      listID,
			"subscribers": subscribers,
		},
	})
}
