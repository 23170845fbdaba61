package model

import (
	"encoding/json"
	"testing"
)

func TestRawInput_Content(t *testing.T) {
	in := NewRawInput("Loan enquiry", "Dear John Smith")
	if got, want := in.Content(), "Loan enquiry\n\nDear John Smith"; got != want {
		t.Errorf("Expected content %q, got %q", want, got)
	}

	empty := NewRawInput("", "")
	if got := empty.Content(); got != "\n\n" {
		t.Errorf("Expected blank separator for empty input, got %q", got)
	}
}

func TestExtractionRecord_OmitsAbsentFields(t *testing.T) {
	rec := ExtractionRecord{
		Applicant: ApplicantFacts{Emails: []string{"a@b.com"}},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}

	if _, ok := decoded["applicant"]["emails"]; !ok {
		t.Error("Expected emails key to be present")
	}
	if _, ok := decoded["applicant"]["phones"]; ok {
		t.Error("Expected phones key to be absent")
	}
	if len(decoded["property"]) != 0 {
		t.Errorf("Expected empty property object, got %v", decoded["property"])
	}
}

func TestExtractionRecord_IsEmpty(t *testing.T) {
	if !(ExtractionRecord{}).IsEmpty() {
		t.Error("Expected zero record to be empty")
	}

	rec := ExtractionRecord{Company: CompanyFacts{VATNumbers: []string{"123456789"}}}
	if rec.IsEmpty() {
		t.Error("Expected record with a VAT number to be non-empty")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Lookup.CompaniesHouseBaseURL != DefaultCompaniesHouseBaseURL {
		t.Errorf("Expected default lookup base URL, got %q", cfg.Lookup.CompaniesHouseBaseURL)
	}
	if cfg.Concurrency.Workers <= 0 {
		t.Errorf("Expected positive worker count, got %d", cfg.Concurrency.Workers)
	}
}
