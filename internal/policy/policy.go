package policy

// Permissions holds the three deployment-level permission flags. A zero
// Permissions is the most restrictive configuration: only tools that are
// non-PII, read-only, and non-sending pass.
type Permissions struct {
	AllowUserPII bool
	AllowWrites  bool
	AllowSends   bool
}

// Blocked-tool reasons, in gate order. The first failing gate decides the
// reason, so a tool needing both PII and send always reports the PII reason
// when both flags are off.
const (
	ReasonPII   = "exposes user PII, requires PII permission"
	ReasonWrite = "modifies data, requires write permission"
	ReasonSend  = "can send messages, requires send permission"
)

// BlockedReason returns why the named tool is blocked under perms, or ""
// if it is allowed. Gates apply in fixed order: PII, then write, then send.
// Unknown and empty names are absent from every safe-list and fail the
// first gate they are checked against.
func BlockedReason(name string, perms Permissions) string {
	if !perms.AllowUserPII && !IsNonPII(name) {
		return ReasonPII
	}
	if !perms.AllowWrites && !IsReadOnly(name) {
		return ReasonWrite
	}
	if !perms.AllowSends && IsSend(name) {
		return ReasonSend
	}
	return ""
}

// Allowed reports whether the named tool may be exposed and invoked under
// perms. Allowed(name, p) is true exactly when BlockedReason(name, p) is "".
func Allowed(name string, perms Permissions) bool {
	return BlockedReason(name, perms) == ""
}
