package billing

import (
	"math/big"
	"regexp"
	"strings"
)

var documentNumberPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// ParseDocumentNumber splits a number such as "TIN7" into its prefix and
// numeric suffix.
func ParseDocumentNumber(s string) (prefix string, n *big.Int, ok bool) {
	m := documentNumberPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", nil, false
	}
	n, ok = new(big.Int).SetString(m[2], 10)
	if !ok {
		return "", nil, false
	}
	return m[1], n, true
}

// FirstDocumentNumber is the number issued when nothing precedes it.
func FirstDocumentNumber(defaultPrefix string) string {
	return defaultPrefix + "1"
}

// NextDocumentNumber returns the number following last. An empty or
// unparseable last number restarts the sequence at defaultPrefix + "1".
func NextDocumentNumber(last, defaultPrefix string) string {
	prefix, n, ok := ParseDocumentNumber(last)
	if !ok {
		return FirstDocumentNumber(defaultPrefix)
	}
	return prefix + n.Add(n, big.NewInt(1)).String()
}
