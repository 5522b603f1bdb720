package mcp

import (
	"context"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

// targetSendParams are the options shared by every /api/<medium>/target tool.
func targetSendParams() []mcplib.ToolOption {
	return []mcplib.ToolOption{
		mcplib.WithDestructiveHintAnnotation(true),
		mcplib.WithNumber("campaign_id",
			mcplib.Description("ID of the triggered campaign whose template is sent"),
			mcplib.Required(),
		),
		mcplib.WithString("recipient_email",
			mcplib.Description("Email address of the recipient (recipient_email or recipient_user_id required)"),
		),
		mcplib.WithString("recipient_user_id",
			mcplib.Description("userId of the recipient (recipient_email or recipient_user_id required)"),
		),
		mcplib.WithObject("data_fields",
			mcplib.Description("Data fields merged into the template for this send"),
		),
		mcplib.WithString("send_at",
			mcplib.Description("Scheduled send time (yyyy-MM-dd HH:mm:ss, project timezone)"),
		),
	}
}

func (s *Server) registerMessagingTools() {
	// send_email — one transactional/triggered email.
	s.addTool(
		mcplib.NewTool("send_email", append([]mcplib.ToolOption{
			mcplib.WithDescription(`Send a triggered email campaign to a single recipient.

This delivers a real email and requires the send permission. The campaign
must be of type Triggered.`),
		}, targetSendParams()...)...),
		s.handleSendEmail,
	)

	// send_sms.
	s.addTool(
		mcplib.NewTool("send_sms", append([]mcplib.ToolOption{
			mcplib.WithDescription("Send a triggered SMS campaign to a single recipient. Delivers a real text message."),
		}, targetSendParams()...)...),
		s.handleSendSMS,
	)

	// send_push.
	s.addTool(
		mcplib.NewTool("send_push", append([]mcplib.ToolOption{
			mcplib.WithDescription("Send a triggered push notification campaign to a single recipient's registered devices."),
		}, targetSendParams()...)...),
		s.handleSendPush,
	)

	// send_web_push.
	s.addTool(
		mcplib.NewTool("send_web_push", append([]mcplib.ToolOption{
			mcplib.WithDescription("Send a triggered web push campaign to a single recipient's subscribed browsers."),
		}, targetSendParams()...)...),
		s.handleSendWebPush,
	)

	// send_in_app.
	s.addTool(
		mcplib.NewTool("send_in_app", append([]mcplib.ToolOption{
			mcplib.WithDescription("Queue a triggered in-app message for a single recipient, shown on their next session."),
		}, targetSendParams()...)...),
		s.handleSendInApp,
	)

	// send_email_proof — test render to a single inbox. Delivery goes through
	// the same targeted-send endpoint as send_email, so it is gated
	// identically: PII, write, and send.
	s.addTool(
		mcplib.NewTool("send_email_proof",
			mcplib.WithDescription(`Send a rendered proof of a campaign's email template to a test address.

Useful for reviewing template output before a real send. A real email is
delivered to the proof address, so this requires the same permissions as
send_email.`),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithNumber("campaign_id",
				mcplib.Description("ID of the campaign whose template to proof"),
				mcplib.Required(),
			),
			mcplib.WithString("recipient_email",
				mcplib.Description("Test inbox that receives the proof"),
				mcplib.Required(),
			),
			mcplib.WithObject("data_fields",
				mcplib.Description("Data fields to render the template with"),
			),
		),
		s.handleSendEmailProof,
	)
}

func (s *Server) handleSendEmail(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.targetSend(ctx, request, "/api/email/target")
}

func (s *Server) handleSendSMS(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.targetSend(ctx, request, "/api/sms/target")
}

func (s *Server) handleSendPush(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.targetSend(ctx, request, "/api/push/target")
}

func (s *Server) handleSendWebPush(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.targetSend(ctx, request, "/api/webPush/target")
}

func (s *Server) handleSendInApp(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.targetSend(ctx, request, "/api/inApp/target")
}

// targetSend is the shared body for the per-medium single-recipient sends.
func (s *Server) targetSend(ctx context.Context, request mcplib.CallToolRequest, path string) (*mcplib.CallToolResult, error) {
	campaignID := request.GetInt("campaign_id", 0)
	if campaignID == 0 {
		return errorResult("campaign_id is required"), nil
	}
	email := request.GetString("recipient_email", "")
	userID := request.GetString("recipient_user_id", "")
	if email == "" && userID == "" {
		return errorResult("either recipient_email or recipient_user_id is required"), nil
	}

	body := map[string]any{"campaignId": campaignID}
	if email != "" {
		body["recipientEmail"] = email
	}
	if userID != "" {
		body["recipientUserId"] = userID
	}
	if df, ok := request.GetArguments()["data_fields"]; ok {
		body["dataFields"] = df
	}
	if v := request.GetString("send_at", ""); v != "" {
		body["sendAt"] = v
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

func (s *Server) handleSendEmailProof(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	campaignID := request.GetInt("campaign_id", 0)
	email := request.GetString("recipient_email", "")
	if campaignID == 0 || email == "" {
		return errorResult("campaign_id and recipient_email are required"), nil
	}

	body := map[string]any{
		"campaignId":     campaignID,
		"recipientEmail": email,
	}
	if df, ok := request.GetArguments()["data_fields"]; ok {
		body["dataFields"] = df
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/email/target",
		Body:   body,
	})
}
