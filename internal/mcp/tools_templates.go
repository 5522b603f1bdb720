package mcp

import (
	"context"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

func (s *Server) registerTemplateTools() {
	// get_templates — template catalog.
	s.addTool(
		mcplib.NewTool("get_templates",
			mcplib.WithDescription("List the project's message templates, optionally filtered by type and medium."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithString("template_type",
				mcplib.Description("Filter by type: Base, Blast, Triggered, or Workflow"),
			),
			mcplib.WithString("message_medium",
				mcplib.Description("Filter by medium: Email, Push, InApp, or SMS"),
			),
		),
		s.handleGetTemplates,
	)

	// get_email_template — full template content.
	s.addTool(
		mcplib.NewTool("get_email_template",
			mcplib.WithDescription("Get an email template's full content: subject, HTML, plain text, and sender settings."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithNumber("template_id",
				mcplib.Description("ID of the email template"),
				mcplib.Required(),
			),
		),
		s.handleGetEmailTemplate,
	)

	// upsert_email_template — create or modify.
	s.addTool(
		mcplib.NewTool("upsert_email_template",
			mcplib.WithDescription("Create or update an email template. Supplying template_id updates that template; omitting it creates a new one."),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithNumber("template_id",
				mcplib.Description("ID of the template to update (omit to create)"),
			),
			mcplib.WithString("name",
				mcplib.Description("Template name"),
				mcplib.Required(),
			),
			mcplib.WithString("subject",
				mcplib.Description("Email subject line (supports Handlebars)"),
			),
			mcplib.WithString("html",
				mcplib.Description("HTML body of the email"),
			),
			mcplib.WithString("plain_text",
				mcplib.Description("Plain-text body of the email"),
			),
			mcplib.WithString("from_name",
				mcplib.Description("Sender display name"),
			),
			mcplib.WithString("from_email",
				mcplib.Description("Sender address (must be a verified domain)"),
			),
		),
		s.handleUpsertEmailTemplate,
	)
}

func (s *Server) handleGetTemplates(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	query := iterable.Query{}
	if v := request.GetString("template_type", ""); v != "" {
		query["templateType"] = v
	}
	if v := request.GetString("message_medium", ""); v != "" {
		query["messageMedium"] = v
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/templates",
		Query:  query,
	})
}

func (s *Server) handleGetEmailTemplate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	templateID := request.GetInt("template_id", 0)
	if templateID == 0 {
		return errorResult("template_id is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/templates/email/get",
		Query:  iterable.Query{"templateId": templateID},
	})
}

func (s *Server) handleUpsertEmailTemplate(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return errorResult("name is required"), nil
	}

	body := map[string]any{"name": name}
	if id := request.GetInt("template_id", 0); id != 0 {
		body["templateId"] = id
	}
	for arg, field := range map[string]string{
		"subject":    "subject",
		"html":       "html",
		"plain_text": "plainText",
		"from_name":  "fromName",
		"from_email": "fromEmail",
	} {
		if v := request.GetString(arg, ""); v != "" {
			body[field] = v
		}
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/templates/email/upsert",
		Body:   body,
	})
}
