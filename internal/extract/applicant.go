package extract

import (
	"strings"

	"github.com/ppiankov/mailfacts/internal/model"
)

// Labels and honorifics are matched case-insensitively, which also relaxes the
// capitalised-word shape of the name itself.
var applicantRules = ruleTable{
	{
		field:   fieldEmails,
		pattern: compile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		capture: captureMatch,
		dedup:   uniqueExact,
	},
	{
		// +44 or 0, then 2-4/3-4/3-4, 3/3/4 or 4/6 digit groups
		field:   fieldPhones,
		pattern: compile(`(?:\+44\s?|0)(?:\d{2,4}\s?\d{3,4}\s?\d{3,4}|\d{3}\s?\d{3}\s?\d{4}|\d{4}\s?\d{6})`),
		capture: captureMatch,
		dedup:   uniqueExact,
	},
	{
		field:   fieldNames,
		pattern: compile(`(?i)(?:applicant[:\s]+|client[:\s]+|borrower[:\s]+|mr\.?\s+|mrs\.?\s+|ms\.?\s+|miss\s+)([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
		capture: captureGroup,
		dedup:   uniqueExact,
		accept:  isFullName,
	},
	{
		field:   fieldNames,
		pattern: compile(`(?i)name[:\s]+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
		capture: captureGroup,
		dedup:   uniqueExact,
		accept:  isFullName,
	},
	{
		field:   fieldNames,
		pattern: compile(`(?i)dear\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		capture: captureGroup,
		dedup:   uniqueExact,
		accept:  isFullName,
	},
	{
		field:   fieldIncome,
		pattern: compile(`(?i)(?:income|salary|earnings?)[:\s]*£?[0-9,]+(?:\.[0-9]{2})?`),
		capture: captureMatch,
		dedup:   keepAll,
	},
	{
		field:   fieldEmployment,
		pattern: compile(`(?i)(?:employer|employed by|works? (?:at|for))[:\s]*([A-Za-z0-9\s&.,'-]+?)(?:\n|\.|,|$)`),
		capture: captureGroup,
		dedup:   keepAll,
	},
}

// ApplicantExtractor finds applicant names, contact details, income and employment
type ApplicantExtractor struct {
	rules ruleTable
}

// NewApplicantExtractor creates a new applicant extractor
func NewApplicantExtractor() *ApplicantExtractor {
	return &ApplicantExtractor{rules: applicantRules}
}

// Extract extracts applicant facts from the original (case-preserved) content
func (e *ApplicantExtractor) Extract(original string) model.ApplicantFacts {
	found := e.rules.apply(original)

	return model.ApplicantFacts{
		Names:      found[fieldNames],
		Emails:     found[fieldEmails],
		Phones:     found[fieldPhones],
		Income:     found[fieldIncome],
		Employment: found[fieldEmployment],
	}
}

// isFullName keeps names longer than two characters with at least two
// single-space separated tokens. A name broken across a line is rejected.
func isFullName(name string) bool {
	return len(name) > 2 && len(strings.Split(name, " ")) >= 2
}
