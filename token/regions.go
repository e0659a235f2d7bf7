package token

import "strings"

// RegionKind discriminates the two kinds of opaque spans on a line.
type RegionKind int

const (
	QuoteRegion RegionKind = iota
	ExpressionRegion
)

// Region is a byte span [Start, End) on a single line within which the
// structural characters '#', ',' and '|' are data, not syntax. The span
// includes its delimiters.
type Region struct {
	Kind       RegionKind
	Start, End int
}

// ScanRegions finds all quoted-string and expression regions on a line in a
// single left-to-right pass. Quotes use "" as an escaped quote. Expressions
// start at "$(" and close when the parenthesis depth returns to zero; double
// quotes inside an expression toggle an inner quote state so parentheses
// within them do not affect the depth.
//
// The second result is true when the line ends inside an unterminated
// region; the region then extends to the end of the line.
func ScanRegions(s string) ([]Region, bool) {
	var regions []Region
	i, n := 0, len(s)
	for i < n {
		switch {
		case s[i] == '"':
			start := i
			i++
			closed := false
			for i < n {
				if s[i] == '"' {
					if i+1 < n && s[i+1] == '"' {
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				i++
			}
			regions = append(regions, Region{Kind: QuoteRegion, Start: start, End: i})
			if !closed {
				return regions, true
			}
		case s[i] == '$' && i+1 < n && s[i+1] == '(':
			start := i
			i += 2
			depth := 1
			inQuote := false
			for i < n && depth > 0 {
				c := s[i]
				if c == '"' {
					if inQuote && i+1 < n && s[i+1] == '"' {
						i += 2
						continue
					}
					inQuote = !inQuote
				} else if !inQuote {
					if c == '(' {
						depth++
					} else if c == ')' {
						depth--
					}
				}
				i++
			}
			regions = append(regions, Region{Kind: ExpressionRegion, Start: start, End: i})
			if depth > 0 {
				return regions, true
			}
		default:
			i++
		}
	}
	return regions, false
}

// StripComment removes the first '#' outside any quote or expression region
// and everything after it, then trims trailing spaces and tabs.
func StripComment(s string) string {
	regions, _ := ScanRegions(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '#' && !inRegion(regions, i) {
			return strings.TrimRight(s[:i], " \t")
		}
	}
	return strings.TrimRight(s, " \t")
}

func inRegion(regions []Region, i int) bool {
	for _, r := range regions {
		if i >= r.Start && i < r.End {
			return true
		}
		if r.Start > i {
			break
		}
	}
	return false
}
