package schema

import "strings"

func foldCase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func isDigitFirst(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
