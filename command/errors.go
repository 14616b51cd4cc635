// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package command

import (
	"fmt"
	"strings"
)

// kindString returns names[k] or a generic representation
// if k is out of range.
func kindString(names []string, k int, typ string) string {
	if k < 0 || k >= len(names) {
		return fmt.Sprintf("%s(%d)", typ, k)
	}
	return names[k]
}

// errText builds the text of a command error.
// what/index identify the offending element; index < 0
// omits it. Numbers are printed only if nums is set.
func errText(cmd string, kind fmt.Stringer, what string, index int, nums bool, expected, obtained int64) string {
	var sb strings.Builder
	sb.WriteString("command: ")
	sb.WriteString(cmd)
	sb.WriteString(": ")
	sb.WriteString(kind.String())
	if index >= 0 && what != "" {
		fmt.Fprintf(&sb, " (%s %d)", what, index)
	}
	if nums {
		fmt.Fprintf(&sb, ": expected %d, obtained %d", expected, obtained)
	}
	return sb.String()
}
