package automation

import (
	"fmt"
	"strings"

	"chainchat-server/internal/oracle"
)

// FormatAnswer renders a fixed-point feed answer as a decimal string with two
// fractional digits. The answer is scaled by 10^decimals, so 350000000000
// with 8 decimals is "3500.00". Pure integer arithmetic; no float involved.
func FormatAnswer(answer int64, decimals uint8) string {
	sign := ""
	u := uint64(answer)
	if answer < 0 {
		sign = "-"
		u = uint64(-answer)
	}

	var cents uint64
	if decimals >= 2 {
		cents = u / pow10(decimals-2)
	} else {
		cents = u * pow10(2-decimals)
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func pow10(n uint8) uint64 {
	result := uint64(1)
	for i := uint8(0); i < n; i++ {
		result *= 10
	}
	return result
}

// formatQuotes builds the oracle message body posted into the default group.
func formatQuotes(quotes []oracle.Quote) string {
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		parts = append(parts, fmt.Sprintf("%s: %s", q.Feed, FormatAnswer(q.Answer, q.Decimals)))
	}
	return "📊 Price update: " + strings.Join(parts, " | ")
}
