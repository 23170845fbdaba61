package extract

import (
	"regexp"
	"strings"
)

// field names a slot in a facts record
type field string

const (
	fieldNames         field = "names"
	fieldEmails        field = "emails"
	fieldPhones        field = "phones"
	fieldIncome        field = "income"
	fieldEmployment    field = "employment"
	fieldPostcodes     field = "postcodes"
	fieldAddresses     field = "addresses"
	fieldValues        field = "values"
	fieldTypes         field = "types"
	fieldRegistrations field = "registrationNumbers"
	fieldCompanyNames  field = "companyNames"
	fieldTradingAs     field = "tradingAs"
	fieldVATNumbers    field = "vatNumbers"
)

// capture selects which part of a match becomes the stored value
type capture int

const (
	captureMatch   capture = iota // whole matched fragment, as found
	captureTrimmed                // whole matched fragment, whitespace trimmed
	captureGroup                  // first submatch, whitespace trimmed
)

// dedup controls whether repeated values are kept
type dedup int

const (
	keepAll     dedup = iota // every match in scan order
	uniqueExact              // first occurrence of each exact string
)

// rule is one row of an extractor's pattern table
type rule struct {
	field   field
	pattern *regexp.Regexp
	capture capture
	dedup   dedup
	accept  func(string) bool // optional post-capture filter
}

// spaceClass is the body of a character class matching ECMAScript \s.
// RE2's \s is ASCII only and misses no-break spaces pasted from mail clients.
const spaceClass = `\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

// compile builds a rule pattern with every \s widened to spaceClass, both
// inside and outside bracket expressions.
func compile(expr string) *regexp.Regexp {
	var b strings.Builder
	inClass := false

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '\\' && i+1 < len(expr):
			i++
			if expr[i] != 's' {
				b.WriteByte(c)
				b.WriteByte(expr[i])
				continue
			}
			if inClass {
				b.WriteString(spaceClass)
			} else {
				b.WriteString("[" + spaceClass + "]")
			}
			continue
		case c == '[' && !inClass:
			inClass = true
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)
	}

	return regexp.MustCompile(b.String())
}

// ruleTable is applied top to bottom; rules sharing a field accumulate into one list
type ruleTable []rule

// apply runs every rule over text. Fields without matches are absent from the map.
func (t ruleTable) apply(text string) map[field][]string {
	found := make(map[field][]string)
	seen := make(map[field]map[string]bool)

	for _, r := range t {
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			value := r.value(m)
			if r.accept != nil && !r.accept(value) {
				continue
			}

			if r.dedup == uniqueExact {
				if seen[r.field] == nil {
					seen[r.field] = make(map[string]bool)
				}
				if seen[r.field][value] {
					continue
				}
				seen[r.field][value] = true
			}

			found[r.field] = append(found[r.field], value)
		}
	}

	return found
}

func (r rule) value(m []string) string {
	switch r.capture {
	case captureTrimmed:
		return strings.TrimSpace(m[0])
	case captureGroup:
		if len(m) < 2 {
			return strings.TrimSpace(m[0])
		}
		return strings.TrimSpace(m[1])
	default:
		return m[0]
	}
}
