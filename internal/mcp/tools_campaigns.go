package mcp

import (
	"context"
	"fmt"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/iterable"
)

func (s *Server) registerCampaignTools() {
	// get_campaigns — all campaigns with state and metadata.
	s.addTool(
		mcplib.NewTool("get_campaigns",
			mcplib.WithDescription("List all campaigns in the project with their IDs, names, states, and send times."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
		),
		s.handleGetCampaigns,
	)

	// create_campaign — new triggered/blast campaign.
	s.addTool(
		mcplib.NewTool("create_campaign",
			mcplib.WithDescription(`Create a campaign from a template, targeted at one or more lists.
The campaign is created but not sent; use trigger_campaign to send it.`),
			mcplib.WithDestructiveHintAnnotation(false),
			mcplib.WithString("name",
				mcplib.Description("Name for the new campaign"),
				mcplib.Required(),
			),
			mcplib.WithNumber("template_id",
				mcplib.Description("ID of the template the campaign sends"),
				mcplib.Required(),
			),
			mcplib.WithArray("list_ids",
				mcplib.Description("IDs of the lists to target"),
				mcplib.Required(),
			),
			mcplib.WithArray("suppression_list_ids",
				mcplib.Description("IDs of lists to suppress from the send"),
			),
			mcplib.WithString("send_at",
				mcplib.Description("Scheduled send time (yyyy-MM-dd HH:mm:ss, project timezone)"),
			),
			mcplib.WithObject("data_fields",
				mcplib.Description("Campaign-level data fields available to the template"),
			),
		),
		s.handleCreateCampaign,
	)

	// trigger_campaign — actually send.
	s.addTool(
		mcplib.NewTool("trigger_campaign",
			mcplib.WithDescription(`Trigger a campaign send immediately. This dispatches real messages to
every targeted recipient and requires the send permission.`),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithNumber("campaign_id",
				mcplib.Description("ID of the campaign to trigger"),
				mcplib.Required(),
			),
			mcplib.WithArray("list_ids",
				mcplib.Description("Override the target lists for this trigger"),
			),
			mcplib.WithObject("data_fields",
				mcplib.Description("Data fields for this send, available to the template"),
			),
		),
		s.handleTriggerCampaign,
	)

	// cancel_campaign — stop a scheduled/recurring campaign.
	s.addTool(
		mcplib.NewTool("cancel_campaign",
			mcplib.WithDescription("Cancel a scheduled or recurring campaign."),
			mcplib.WithDestructiveHintAnnotation(true),
			mcplib.WithNumber("campaign_id",
				mcplib.Description("ID of the campaign to cancel"),
				mcplib.Required(),
			),
		),
		s.handleCancelCampaign,
	)

	// get_campaign_metrics — CSV export.
	s.addTool(
		mcplib.NewTool("get_campaign_metrics",
			mcplib.WithDescription(`Get delivery and engagement metrics for one or more campaigns.

The upstream endpoint answers with CSV, which is returned verbatim: the
first line is the header row. Multiple campaign IDs become repeated
campaignId query parameters.`),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithArray("campaign_ids",
				mcplib.Description("IDs of the campaigns to report on"),
				mcplib.Required(),
			),
			mcplib.WithString("start_date_time",
				mcplib.Description("Start of the reporting window (ISO 8601)"),
			),
			mcplib.WithString("end_date_time",
				mcplib.Description("End of the reporting window (ISO 8601)"),
			),
		),
		s.handleGetCampaignMetrics,
	)

	// get_child_campaigns — recurring campaign instances.
	s.addTool(
		mcplib.NewTool("get_child_campaigns",
			mcplib.WithDescription("List the child campaigns of a recurring campaign."),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithIdempotentHintAnnotation(true),
			mcplib.WithNumber("campaign_id",
				mcplib.Description("ID of the recurring parent campaign"),
				mcplib.Required(),
			),
		),
		s.handleGetChildCampaigns,
	)
}

func (s *Server) handleGetCampaigns(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/campaigns",
	})
}

func (s *Server) handleCreateCampaign(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name := request.GetString("name", "")
	templateID := request.GetInt("template_id", 0)
	listIDs := numberSlice(request.GetArguments(), "list_ids")
	if name == "" || templateID == 0 || len(listIDs) == 0 {
		return errorResult("name, template_id, and list_ids are required"), nil
	}

	body := map[string]any{
		"name":       name,
		"templateId": templateID,
		"listIds":    listIDs,
	}
	if ids := numberSlice(request.GetArguments(), "suppression_list_ids"); len(ids) > 0 {
		body["suppressionListIds"] = ids
	}
	if v := request.GetString("send_at", ""); v != "" {
		body["sendAt"] = v
	}
	if df, ok := request.GetArguments()["data_fields"]; ok {
		body["dataFields"] = df
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/campaigns/create",
		Body:   body,
	})
}

func (s *Server) handleTriggerCampaign(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	campaignID := request.GetInt("campaign_id", 0)
	if campaignID == 0 {
		return errorResult("campaign_id is required"), nil
	}

	body := map[string]any{"campaignId": campaignID}
	if ids := numberSlice(request.GetArguments(), "list_ids"); len(ids) > 0 {
		body["listIds"] = ids
	}
	if df, ok := request.GetArguments()["data_fields"]; ok {
		body["dataFields"] = df
	}

	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/campaigns/trigger",
		Body:   body,
	})
}

func (s *Server) handleCancelCampaign(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	campaignID := request.GetInt("campaign_id", 0)
	if campaignID == 0 {
		return errorResult("campaign_id is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodPost,
		Path:   "/api/campaigns/cancel",
		Body:   map[string]any{"campaignId": campaignID},
	})
}

func (s *Server) handleGetCampaignMetrics(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	campaignIDs := numberSlice(request.GetArguments(), "campaign_ids")
	if len(campaignIDs) == 0 {
		return errorResult("campaign_ids is required and must be a non-empty array"), nil
	}

	query := iterable.Query{"campaignId": campaignIDs}
	if v := request.GetString("start_date_time", ""); v != "" {
		query["startDateTime"] = v
	}
	if v := request.GetString("end_date_time", ""); v != "" {
		query["endDateTime"] = v
	}

	// The CSV body passes through callTool verbatim as text content.
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   "/api/campaigns/metrics",
		Query:  query,
	})
}

func (s *Server) handleGetChildCampaigns(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	campaignID := request.GetInt("campaign_id", 0)
	if campaignID == 0 {
		return errorResult("campaign_id is required"), nil
	}
	return s.callTool(ctx, iterable.RequestSpec{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/campaigns/recurring/%d/childCampaigns", campaignID),
	})
}
