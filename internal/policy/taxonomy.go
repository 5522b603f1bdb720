// Package policy classifies Iterable tools by capability and decides which
// tools a deployment may expose.
//
// Classification is a safe-list: every tool name must be added to the sets it
// belongs to by hand. A name absent from a set fails the corresponding gate,
// so forgetting a new tool makes it more restricted, never less.
package policy

// nonPIITools lists tools whose results never contain user-identifying data.
// Tools that look up, enumerate, or target individual users are deliberately
// absent: they require the PII permission.
var nonPIITools = map[string]bool{
	"update_user":           true,
	"get_user_fields":       true,
	"get_lists":             true,
	"create_list":           true,
	"delete_list":           true,
	"get_list_size":         true,
	"subscribe_to_list":     true,
	"unsubscribe_from_list": true,
	"get_campaigns":         true,
	"create_campaign":       true,
	"trigger_campaign":      true,
	"cancel_campaign":       true,
	"get_campaign_metrics":  true,
	"get_child_campaigns":   true,
	"get_templates":         true,
	"get_email_template":    true,
	"upsert_email_template": true,
	"track_event":           true,
	"track_bulk_events":     true,
	"get_channels":          true,
	"get_message_types":     true,
	"get_journeys":          true,
	"trigger_journey":       true,
}

// readOnlyTools lists tools that never modify upstream state.
var readOnlyTools = map[string]bool{
	"get_user_by_email":    true,
	"get_user_by_id":       true,
	"get_user_fields":      true,
	"get_sent_messages":    true,
	"get_lists":            true,
	"get_list_users":       true,
	"get_list_size":        true,
	"get_campaigns":        true,
	"get_campaign_metrics": true,
	"get_child_campaigns":  true,
	"get_templates":        true,
	"get_email_template":   true,
	"get_user_events":      true,
	"get_channels":         true,
	"get_message_types":    true,
	"get_journeys":         true,
}

// sendTools lists tools that can cause a message to be delivered.
// send_email_proof delivers through the same targeted-send endpoint as
// send_email, so it is absent from the other two sets and carries the same
// three gates.
var sendTools = map[string]bool{
	"trigger_campaign": true,
	"send_email":       true,
	"send_sms":         true,
	"send_push":        true,
	"send_web_push":    true,
	"send_in_app":      true,
	"trigger_journey":  true,
	"send_email_proof": true,
}

// IsNonPII reports whether the tool's results are free of user PII.
func IsNonPII(name string) bool { return nonPIITools[name] }

// IsReadOnly reports whether the tool never modifies upstream state.
func IsReadOnly(name string) bool { return readOnlyTools[name] }

// IsSend reports whether the tool can cause a message send.
func IsSend(name string) bool { return sendTools[name] }
