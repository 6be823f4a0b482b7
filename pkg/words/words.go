// Package words spells out amounts using the Indian numbering system
// (thousand, lakh, crore).
package words

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

var scales = []struct {
	size int64
	name string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// Number spells a non-negative integer. Zero spells as "".
func Number(num int64) string {
	if num <= 0 {
		return ""
	}
	if num < 20 {
		return ones[num]
	}
	if num < 100 {
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	}
	for _, s := range scales {
		if num < s.size {
			continue
		}
		head := Number(num/s.size) + " " + s.name
		if rest := num % s.size; rest > 0 {
			return head + " " + Number(rest)
		}
		return head
	}
	return ""
}

// Rupees spells an amount as "<n> Rupees and <p> Paise Only". Paise are
// rounded to two places; negative amounts are prefixed with "Minus".
func Rupees(amount decimal.Decimal) string {
	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Neg()
	}

	amount = amount.Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Shift(2).IntPart()

	var parts []string
	if rupees > 0 {
		parts = append(parts, Number(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, Number(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return prefix + strings.Join(parts, " and ") + " Only"
}
