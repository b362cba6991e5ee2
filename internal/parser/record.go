// Package parser extracts event serials and field values from one raw
// ausearch record line.
package parser

import (
	"strconv"
	"strings"
)

// EventID extracts the event serial from the substring
// "msg=audit(<secs>.<frac>:<serial>)" -- the integer after the colon.
// Returns 0, false when the line carries no such substring or the serial
// is not a valid integer; callers must not treat 0 as a real event ID.
func EventID(line string) (int, bool) {
	const marker = "msg=audit("
	i := strings.Index(line, marker)
	if i < 0 {
		return 0, false
	}
	rest := line[i+len(marker):]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return 0, false
	}
	rest = rest[colon+1:]
	end := 0
	for end < len(rest) && rest[end] != ')' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Field extracts the value of " <name>=" from a raw line. The leading
// space disambiguates the key from embedded substrings elsewhere in the
// line (e.g. a quoted value containing "name="). For quoted fields
// (acct, comm, exe, name, ...) the returned value excludes the quotes;
// for numeric fields (pid, ppid) the returned value is the literal digit
// run. Returns "", false if the field is absent or malformed.
func Field(line, name string) (string, bool) {
	marker := " " + name + "="
	i := strings.Index(line, marker)
	if i < 0 {
		return "", false
	}
	return extractValue(line[i+len(marker):])
}

// extractValue consumes a double-quoted string, a bare digit run, or
// otherwise a bare token up to the next space, from the start of s.
func extractValue(s string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	if s[0] == '"' {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", false
		}
		return s[1 : 1+end], true
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		// Non-quoted, non-numeric value (e.g. res=success/failed, type=PATH):
		// consume up to the next space.
		for end < len(s) && s[end] != ' ' && s[end] != '\n' {
			end++
		}
		if end == 0 {
			return "", false
		}
		return s[:end], true
	}
	return s[:end], true
}

// IntField extracts a numeric field (pid, ppid, event_id-like values) as an
// int. Returns 0, false when absent or not a valid integer.
func IntField(line, name string) (int, bool) {
	v, ok := Field(line, name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
