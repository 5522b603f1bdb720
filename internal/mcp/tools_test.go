package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/relaymkt/iterable-mcp/internal/auth"
	"github.com/relaymkt/iterable-mcp/internal/iterable"
	"github.com/relaymkt/iterable-mcp/internal/policy"
	"github.com/relaymkt/iterable-mcp/internal/testutil"
)

var fullGrant = policy.Permissions{
	AllowUserPII: true,
	AllowWrites:  true,
	AllowSends:   true,
}

// newTestServer wires a Server against a fake upstream and returns a context
// carrying a resolved credential, the way the HTTP layer would.
func newTestServer(t *testing.T, perms policy.Permissions, upstream http.HandlerFunc) (*Server, context.Context) {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	client := iterable.NewClient(ts.URL, testutil.TestLogger())
	s := New(client, perms, testutil.TestLogger(), "test")

	ctx := auth.WithCredential(context.Background(), auth.Credential{
		Key:    "test-key",
		Source: auth.SourceHeader,
	})
	return s, ctx
}

func toolRequest(name string, args map[string]any) mcplib.CallToolRequest {
	return mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// parseToolText extracts the first TextContent text from a CallToolResult.
func parseToolText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func TestGuardedBlocksDeniedTool(t *testing.T) {
	s, ctx := newTestServer(t, policy.Permissions{}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be reached for a blocked tool")
	})

	handler := s.guarded("get_user_by_email", s.handleGetUserByEmail)
	result, err := handler(ctx, toolRequest("get_user_by_email", map[string]any{"email": "a@x.com"}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "not allowed")
	assert.Contains(t, parseToolText(t, result), policy.ReasonPII)
}

func TestGuardedPassesAllowedTool(t *testing.T) {
	s, ctx := newTestServer(t, policy.Permissions{}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lists":[]}`))
	})

	handler := s.guarded("get_lists", s.handleGetLists)
	result, err := handler(ctx, toolRequest("get_lists", nil))
	require.NoError(t, err)
	require.False(t, result.IsError, parseToolText(t, result))
}

func TestSendsOnlyGrantBlocksTargetedSends(t *testing.T) {
	// Both tools post to the live targeted-send endpoint, so a deployment
	// granting only ALLOW_SENDS must block them both before any upstream call.
	var paths []string
	s, ctx := newTestServer(t, policy.Permissions{AllowSends: true}, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	})

	args := map[string]any{
		"campaign_id":     float64(42),
		"recipient_email": "victim@x.com",
	}
	for name, handler := range map[string]func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error){
		"send_email":       s.handleSendEmail,
		"send_email_proof": s.handleSendEmailProof,
	} {
		result, err := s.guarded(name, handler)(ctx, toolRequest(name, args))
		require.NoError(t, err)
		require.True(t, result.IsError, "%s must be blocked under a sends-only grant", name)
		assert.Contains(t, parseToolText(t, result), policy.ReasonPII, name)
	}
	assert.Empty(t, paths, "no upstream call may happen for a blocked send")
}

func TestHandlerWithoutCredential(t *testing.T) {
	s, _ := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be reached without a credential")
	})

	result, err := s.handleGetLists(context.Background(), toolRequest("get_lists", nil))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "no Iterable API key")
}

func TestHandleGetUserByEmail(t *testing.T) {
	s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/getByEmail", r.URL.Path)
		assert.Equal(t, "a@x.com", r.URL.Query().Get("email"))
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))
		_, _ = w.Write([]byte(`{"user":{"email":"a@x.com"}}`))
	})

	result, err := s.handleGetUserByEmail(ctx, toolRequest("get_user_by_email", map[string]any{
		"email": "a@x.com",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, parseToolText(t, result))

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
	assert.Contains(t, resp, "user")
}

func TestHandleGetUserByEmail_MissingEmail(t *testing.T) {
	s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be reached on a validation failure")
	})

	result, err := s.handleGetUserByEmail(ctx, toolRequest("get_user_by_email", map[string]any{}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "email is required")
}

func TestHandleGetListSize(t *testing.T) {
	s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/lists/7/size", r.URL.Path)
		_, _ = w.Write([]byte("1234"))
	})

	result, err := s.handleGetListSize(ctx, toolRequest("get_list_size", map[string]any{
		"list_id": float64(7),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, parseToolText(t, result))

	var resp iterable.SizeResult
	require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
	assert.Equal(t, 1234, resp.Size)
}

func TestHandleGetListUsers(t *testing.T) {
	t.Run("newline text becomes a users array", func(t *testing.T) {
		s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/lists/getUsers", r.URL.Path)
			assert.Equal(t, "7", r.URL.Query().Get("listId"))
			_, _ = w.Write([]byte("a@x.com\nb@x.com\n"))
		})

		result, err := s.handleGetListUsers(ctx, toolRequest("get_list_users", map[string]any{
			"list_id": float64(7),
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, parseToolText(t, result))

		var resp iterable.EmailListResult
		require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
		assert.Equal(t, []iterable.ListUser{{Email: "a@x.com"}, {Email: "b@x.com"}}, resp.Users)
	})

	t.Run("empty body becomes an empty users array", func(t *testing.T) {
		s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {})

		result, err := s.handleGetListUsers(ctx, toolRequest("get_list_users", map[string]any{
			"list_id": float64(7),
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, parseToolText(t, result))

		var resp iterable.EmailListResult
		require.NoError(t, json.Unmarshal([]byte(parseToolText(t, result)), &resp))
		require.NotNil(t, resp.Users)
		assert.Empty(t, resp.Users)
	})
}

func TestHandleCreateList_MissingName(t *testing.T) {
	s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be reached on a validation failure")
	})

	result, err := s.handleCreateList(ctx, toolRequest("create_list", map[string]any{}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "name is required")
}

func TestHandleGetCampaignMetrics_CSVPassthrough(t *testing.T) {
	csv := "id,Total Email Sends\n42,1000\n"
	s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/campaigns/metrics", r.URL.Path)
		assert.Equal(t, []string{"1", "2"}, r.URL.Query()["campaignId"])
		_, _ = w.Write([]byte(csv))
	})

	result, err := s.handleGetCampaignMetrics(ctx, toolRequest("get_campaign_metrics", map[string]any{
		"campaign_ids": []any{float64(1), float64(2)},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, parseToolText(t, result))
	assert.Equal(t, csv, parseToolText(t, result))
}

func TestHandleTrackEvent(t *testing.T) {
	s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events/track", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "purchase", body["eventName"])
		assert.Equal(t, "a@x.com", body["email"])
		_, _ = w.Write([]byte(`{"msg":"Event with eventName purchase tracked","code":"Success"}`))
	})

	result, err := s.handleTrackEvent(ctx, toolRequest("track_event", map[string]any{
		"event_name": "purchase",
		"email":      "a@x.com",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, parseToolText(t, result))
}

func TestUpstreamErrorSurfacesAsToolError(t *testing.T) {
	s, ctx := newTestServer(t, fullGrant, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"msg":"Invalid API key"}`))
	})

	result, err := s.handleGetLists(ctx, toolRequest("get_lists", nil))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, parseToolText(t, result), "400")
	assert.NotContains(t, parseToolText(t, result), "test-key")
}

func TestNumberSlice(t *testing.T) {
	args := map[string]any{
		"ids":   []any{float64(1), "two", float64(3)},
		"other": "x",
	}
	assert.Equal(t, []int{1, 3}, numberSlice(args, "ids"))
	assert.Nil(t, numberSlice(args, "other"))
	assert.Nil(t, numberSlice(args, "missing"))
}
