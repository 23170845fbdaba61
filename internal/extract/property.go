package extract

import (
	"strings"

	"github.com/ppiankov/mailfacts/internal/model"
)

// postcodeShape is a UK postcode: 1-2 letters, digit, optional alphanumeric,
// optional space, digit, two letters.
const postcodeShape = `[A-Z]{1,2}[0-9][A-Z0-9]?\s?[0-9][A-Z]{2}`

var propertyRules = ruleTable{
	{
		field:   fieldPostcodes,
		pattern: compile(`\b` + postcodeShape + `\b`),
		capture: captureMatch,
		dedup:   uniqueExact,
	},
	{
		// Labelled, house-number-led, postcode optional
		field:   fieldAddresses,
		pattern: compile(`(?i)(?:property|address|located at)[:\s]*([0-9]+[A-Za-z]?\s+[A-Za-z\s,'.-]+(?:` + postcodeShape + `)?)`),
		capture: captureGroup,
		dedup:   uniqueExact,
		accept:  isAddress,
	},
	{
		// Unlabelled, must end in a postcode
		field:   fieldAddresses,
		pattern: compile(`([0-9]+[A-Za-z]?\s+[A-Za-z\s,'.-]+` + postcodeShape + `)`),
		capture: captureGroup,
		dedup:   uniqueExact,
		accept:  isAddress,
	},
	{
		field:   fieldValues,
		pattern: compile(`(?i)(?:value|price|purchase price|valuation)[:\s]*£[0-9,]+(?:,[0-9]{3})*(?:\.[0-9]{2})?`),
		capture: captureMatch,
		dedup:   keepAll,
	},
	{
		field:   fieldTypes,
		pattern: compile(`(?i)(?:property type|type of property)[:\s]*([A-Za-z\s-]+?)(?:\n|\.|,|$)`),
		capture: captureGroup,
		dedup:   keepAll,
	},
}

// PropertyExtractor finds postcodes, addresses, valuations and property types
type PropertyExtractor struct {
	rules      ruleTable
	vocabulary []string
}

// NewPropertyExtractor creates a new property extractor
func NewPropertyExtractor() *PropertyExtractor {
	return &PropertyExtractor{
		rules:      propertyRules,
		vocabulary: model.PropertyTypeVocabulary,
	}
}

// Extract extracts property facts. Patterns run over original; the
// vocabulary scan runs over normalized.
func (e *PropertyExtractor) Extract(original, normalized string) model.PropertyFacts {
	found := e.rules.apply(original)

	return model.PropertyFacts{
		Postcodes:     found[fieldPostcodes],
		Addresses:     found[fieldAddresses],
		Values:        found[fieldValues],
		Types:         found[fieldTypes],
		DetectedTypes: e.detectTypes(normalized),
	}
}

// detectTypes returns vocabulary terms contained in normalized, in vocabulary order
func (e *PropertyExtractor) detectTypes(normalized string) []string {
	var detected []string
	for _, term := range e.vocabulary {
		if strings.Contains(normalized, term) {
			detected = append(detected, term)
		}
	}
	return detected
}

func isAddress(address string) bool {
	return len(address) > 10
}
