// Package extract turns loan-application email text into structured facts.
//
// Every extractor is a table of compiled patterns applied to in-memory text.
// Nothing here performs I/O or holds per-call state, so an Analyzer can be
// shared freely between goroutines.
package extract

import "github.com/ppiankov/mailfacts/internal/model"

// Analyzer runs the applicant, property and company extractors over one message
type Analyzer struct {
	applicant *ApplicantExtractor
	property  *PropertyExtractor
	company   *CompanyExtractor
}

// NewAnalyzer creates an analyzer with the built-in extractors
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		applicant: NewApplicantExtractor(),
		property:  NewPropertyExtractor(),
		company:   NewCompanyExtractor(),
	}
}

// Analyze extracts an ExtractionRecord from subject and body. It is total:
// empty input yields a record with every field absent.
func (a *Analyzer) Analyze(in model.RawInput) model.ExtractionRecord {
	content := in.Content()
	normalized := Normalize(content)

	return model.ExtractionRecord{
		Applicant: a.applicant.Extract(content),
		Property:  a.property.Extract(content, normalized),
		Company:   a.company.Extract(content),
	}
}
