package policy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allPermissions enumerates every combination of the three flags.
func allPermissions() []Permissions {
	perms := make([]Permissions, 0, 8)
	for _, pii := range []bool{false, true} {
		for _, writes := range []bool{false, true} {
			for _, sends := range []bool{false, true} {
				perms = append(perms, Permissions{
					AllowUserPII: pii,
					AllowWrites:  writes,
					AllowSends:   sends,
				})
			}
		}
	}
	return perms
}

// allToolNames is the union of every safe-list plus names in none of them.
func allToolNames() []string {
	seen := map[string]bool{}
	names := []string{}
	for _, set := range []map[string]bool{nonPIITools, readOnlyTools, sendTools} {
		for name := range set {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return append(names, "", "totally_unknown_tool")
}

func TestAllowedIffNoBlockedReason(t *testing.T) {
	for _, perms := range allPermissions() {
		for _, name := range allToolNames() {
			reason := BlockedReason(name, perms)
			assert.Equal(t, reason == "", Allowed(name, perms),
				"tool %q under %+v: reason=%q", name, perms, reason)
		}
	}
}

func TestGatePrecedence(t *testing.T) {
	// send_email needs all three grants: it exposes PII, is not read-only,
	// and sends. With everything denied, the PII reason must win.
	name := "send_email"
	require.False(t, IsNonPII(name))
	require.False(t, IsReadOnly(name))
	require.True(t, IsSend(name))

	t.Run("all denied reports PII first", func(t *testing.T) {
		assert.Equal(t, ReasonPII, BlockedReason(name, Permissions{}))
	})

	t.Run("PII granted reports write next", func(t *testing.T) {
		assert.Equal(t, ReasonWrite, BlockedReason(name, Permissions{AllowUserPII: true}))
	})

	t.Run("PII and write granted reports send last", func(t *testing.T) {
		assert.Equal(t, ReasonSend, BlockedReason(name, Permissions{
			AllowUserPII: true,
			AllowWrites:  true,
		}))
	})

	t.Run("all granted allows", func(t *testing.T) {
		assert.True(t, Allowed(name, Permissions{
			AllowUserPII: true,
			AllowWrites:  true,
			AllowSends:   true,
		}))
	})
}

func TestDefaultDeny(t *testing.T) {
	for _, perms := range allPermissions() {
		// Unknown names are absent from every safe-list, so they fail the
		// first gate that is still closed. Only the fully-open config can
		// pass gates 1 and 2 — and send (gate 3) never applies to a name
		// outside the send set, so assert against the spec directly:
		// unknown tools must be denied whenever any restriction exists.
		if perms.AllowUserPII && perms.AllowWrites {
			continue
		}
		assert.False(t, Allowed("", perms), "empty name under %+v", perms)
		assert.False(t, Allowed("totally_unknown_tool", perms), "unknown name under %+v", perms)
	}
}

func TestMonotonicity(t *testing.T) {
	implies := func(a, b bool) bool { return !a || b }
	perms := allPermissions()
	for _, p1 := range perms {
		for _, p2 := range perms {
			if !implies(p1.AllowUserPII, p2.AllowUserPII) ||
				!implies(p1.AllowWrites, p2.AllowWrites) ||
				!implies(p1.AllowSends, p2.AllowSends) {
				continue
			}
			// p2 grants at least what p1 grants.
			for _, name := range allToolNames() {
				if Allowed(name, p1) {
					assert.True(t, Allowed(name, p2),
						"%q allowed under %+v but not under wider %+v", name, p1, p2)
				}
			}
		}
	}
}

func TestReadOnlyTool(t *testing.T) {
	// A pure read of non-PII metadata passes the most restrictive config.
	assert.True(t, Allowed("get_lists", Permissions{}))
	assert.Equal(t, "", BlockedReason("get_lists", Permissions{}))
}

func TestProofToolGatedLikeSendEmail(t *testing.T) {
	// send_email_proof delivers a real email through the same targeted-send
	// endpoint as send_email; the two must fail and pass the same gates under
	// every flag combination.
	assert.False(t, IsNonPII("send_email_proof"))
	assert.False(t, IsReadOnly("send_email_proof"))
	assert.True(t, IsSend("send_email_proof"))

	for _, perms := range allPermissions() {
		assert.Equal(t,
			BlockedReason("send_email", perms),
			BlockedReason("send_email_proof", perms),
			"gate divergence under %+v", perms)
	}

	// A sends-only grant in particular must not open the proof tool.
	assert.Equal(t, ReasonPII, BlockedReason("send_email_proof", Permissions{AllowSends: true}))
	assert.True(t, Allowed("send_email_proof", Permissions{
		AllowUserPII: true,
		AllowWrites:  true,
		AllowSends:   true,
	}))
}

func TestPIIGateExamples(t *testing.T) {
	cases := []struct {
		name   string
		perms  Permissions
		reason string
	}{
		{"get_user_by_email", Permissions{}, ReasonPII},
		{"get_user_by_email", Permissions{AllowUserPII: true}, ""},
		{"get_list_users", Permissions{AllowWrites: true, AllowSends: true}, ReasonPII},
		{"delete_user", Permissions{AllowUserPII: true}, ReasonWrite},
		{"delete_user", Permissions{AllowUserPII: true, AllowWrites: true}, ""},
		{"trigger_campaign", Permissions{AllowUserPII: true, AllowWrites: true}, ReasonSend},
		{"update_user", Permissions{AllowWrites: true}, ""},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_%+v", tc.name, tc.perms), func(t *testing.T) {
			assert.Equal(t, tc.reason, BlockedReason(tc.name, tc.perms))
		})
	}
}
