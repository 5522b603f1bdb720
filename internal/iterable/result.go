package iterable

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SizeResult lifts a bare numeric response (GET /api/lists/{id}/size) into a
// typed shape.
type SizeResult struct {
	Size int `json:"size"`
}

// ParseSize interprets a normalized Call result as a count. A bare "1234"
// body arrives here as a JSON-decoded number; a non-numeric text body (the
// upstream is not consistent) arrives as a string and is parsed base-10.
func ParseSize(v any) (SizeResult, error) {
	switch t := v.(type) {
	case float64:
		return SizeResult{Size: int(t)}, nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return SizeResult{}, fmt.Errorf("iterable: parse size %q: %w", t.String(), err)
		}
		return SizeResult{Size: int(n)}, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return SizeResult{}, fmt.Errorf("iterable: parse size %q: %w", t, err)
		}
		return SizeResult{Size: n}, nil
	default:
		return SizeResult{}, fmt.Errorf("iterable: parse size: unexpected %T", v)
	}
}

// ListUser is one subscriber in a newline-delimited membership response.
type ListUser struct {
	Email string `json:"email"`
}

// EmailListResult lifts a newline-delimited email response
// (GET /api/lists/getUsers) into a typed shape.
type EmailListResult struct {
	Users []ListUser `json:"users"`
}

// ParseEmailList splits a plain-text body on newlines, trims each line, and
// drops blanks. The result's Users slice is never nil.
func ParseEmailList(s string) EmailListResult {
	users := []ListUser{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		users = append(users, ListUser{Email: line})
	}
	return EmailListResult{Users: users}
}
