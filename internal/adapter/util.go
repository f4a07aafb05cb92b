package adapter

import (
	"fmt"
	"strings"
)

// formatSalaryRange renders a min/max amount pair as display text, e.g.
// "$90,000 - $120,000 per year". Either bound may be zero (unknown); both
// zero yields an empty string so the field stays unset.
func formatSalaryRange(minAmount, maxAmount float64, period string) string {
	switch {
	case minAmount > 0 && maxAmount > 0:
		return fmt.Sprintf("$%s - $%s per %s", commaInt(int64(minAmount)), commaInt(int64(maxAmount)), period)
	case minAmount > 0:
		return fmt.Sprintf("$%s+ per %s", commaInt(int64(minAmount)), period)
	case maxAmount > 0:
		return fmt.Sprintf("Up to $%s per %s", commaInt(int64(maxAmount)), period)
	default:
		return ""
	}
}

// commaInt formats n with thousands separators.
func commaInt(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// joinLocation joins city and state, dropping empty parts.
func joinLocation(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, ", ")
}
