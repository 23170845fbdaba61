package extract

import "github.com/ppiankov/mailfacts/internal/model"

// Suffix alternatives are tried left to right, so "Corp" wins over
// "Corporation" and "Inc" over "Incorporated".
var companyRules = ruleTable{
	{
		// 8 digits, or 2 letters + 6 digits (SC123456, NI654321)
		field:   fieldRegistrations,
		pattern: compile(`(?i)(?:company number|registration number|reg\.?\s*no\.?|companies house)[:\s]*([0-9]{8}|[A-Z]{2}[0-9]{6})`),
		capture: captureGroup,
		dedup:   keepAll,
	},
	{
		field:   fieldCompanyNames,
		pattern: compile(`[A-Za-z0-9\s&'.-]+?\s+(?:Ltd|Limited|PLC|plc|LLP|Partnership|Company|Corp|Corporation|Inc|Incorporated)\.?`),
		capture: captureTrimmed,
		dedup:   uniqueExact,
	},
	{
		field:   fieldTradingAs,
		pattern: compile(`(?i)(?:trading as|t/a|dba)[:\s]*([A-Za-z0-9\s&'.-]+?)(?:\n|\.|,|$)`),
		capture: captureGroup,
		dedup:   keepAll,
	},
	{
		field:   fieldVATNumbers,
		pattern: compile(`(?i)(?:vat number|vat reg)[:\s]*(?:gb\s?)?([0-9]{9})`),
		capture: captureGroup,
		dedup:   keepAll,
	},
}

// CompanyExtractor finds registration numbers, legal names, trading names and VAT numbers
type CompanyExtractor struct {
	rules ruleTable
}

// NewCompanyExtractor creates a new company extractor
func NewCompanyExtractor() *CompanyExtractor {
	return &CompanyExtractor{rules: companyRules}
}

// Extract extracts company facts from the original content
func (e *CompanyExtractor) Extract(original string) model.CompanyFacts {
	found := e.rules.apply(original)

	return model.CompanyFacts{
		RegistrationNumbers: found[fieldRegistrations],
		Names:               found[fieldCompanyNames],
		TradingAs:           found[fieldTradingAs],
		VATNumbers:          found[fieldVATNumbers],
	}
}
