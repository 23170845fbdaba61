package model

// RawInput is the text handed over by the mail host: a subject line and a
// plain-text body. It is immutable once constructed.
type RawInput struct {
	subject string
	body    string
}

// NewRawInput creates a RawInput. Empty strings stand in for an absent subject or body.
func NewRawInput(subject, body string) RawInput {
	return RawInput{subject: subject, body: body}
}

// Subject returns the subject line
func (r RawInput) Subject() string {
	return r.subject
}

// Body returns the plain-text body
func (r RawInput) Body() string {
	return r.body
}

// Content joins subject and body with a blank line, the text every extractor scans
func (r RawInput) Content() string {
	return r.subject + "\n\n" + r.body
}

// ExtractionRecord is the structured result of running all extractors over one email
type ExtractionRecord struct {
	Applicant ApplicantFacts `json:"applicant"`
	Property  PropertyFacts  `json:"property"`
	Company   CompanyFacts   `json:"company"`
}

// IsEmpty reports whether no extractor found anything
func (r ExtractionRecord) IsEmpty() bool {
	return r.Applicant.IsEmpty() && r.Property.IsEmpty() && r.Company.IsEmpty()
}

// ApplicantFacts holds applicant identity, contact and income details.
// A nil slice means no match was found; such fields are omitted from JSON.
type ApplicantFacts struct {
	Names      []string `json:"names,omitempty"`      // Deduplicated, first-seen order
	Emails     []string `json:"emails,omitempty"`     // Deduplicated, case-sensitive
	Phones     []string `json:"phones,omitempty"`     // Deduplicated
	Income     []string `json:"income,omitempty"`     // Raw fragments (label + amount), every match
	Employment []string `json:"employment,omitempty"` // Trimmed employer text, every match
}

// IsEmpty reports whether no applicant field was populated
func (a ApplicantFacts) IsEmpty() bool {
	return a.Names == nil && a.Emails == nil && a.Phones == nil && a.Income == nil && a.Employment == nil
}

// PropertyFacts holds details about the property being financed
type PropertyFacts struct {
	Postcodes     []string `json:"postcodes,omitempty"`
	Addresses     []string `json:"addresses,omitempty"`
	Values        []string `json:"values,omitempty"`
	Types         []string `json:"types,omitempty"`
	DetectedTypes []string `json:"detectedTypes,omitempty"` // Vocabulary order, see PropertyTypeVocabulary
}

// IsEmpty reports whether no property field was populated
func (p PropertyFacts) IsEmpty() bool {
	return p.Postcodes == nil && p.Addresses == nil && p.Values == nil && p.Types == nil && p.DetectedTypes == nil
}

// CompanyFacts holds details about a borrowing or employing company
type CompanyFacts struct {
	RegistrationNumbers []string `json:"registrationNumbers,omitempty"` // Raw, never URL-escaped
	Names               []string `json:"names,omitempty"`
	TradingAs           []string `json:"tradingAs,omitempty"`
	VATNumbers          []string `json:"vatNumbers,omitempty"` // Nine digits, country prefix stripped
}

// IsEmpty reports whether no company field was populated
func (c CompanyFacts) IsEmpty() bool {
	return c.RegistrationNumbers == nil && c.Names == nil && c.TradingAs == nil && c.VATNumbers == nil
}

// PropertyTypeVocabulary is the fixed list of property types scanned for in
// lowercased content. DetectedTypes always follows this order.
var PropertyTypeVocabulary = []string{
	"flat", "apartment", "house", "bungalow", "cottage", "mansion", "maisonette", "studio",
}
