package extract

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/mailfacts/internal/model"
)

const enquiryBody = `Dear Sarah Jones,

Please find details for our client below.

Email: john.smith@example.co.uk
Phone: 07700 900123
Salary: £55,000
Employer: Northwind Traders Ltd

Property: 42 Baker Street, London NW1 6XE
Purchase price: £450,000
Property type: Terraced house

Kind regards`

func TestAnalyzer_LoanEnquiry(t *testing.T) {
	rec := NewAnalyzer().Analyze(model.NewRawInput("Mortgage application for Mr John Smith.", enquiryBody))

	assert.Contains(t, rec.Applicant.Names, "John Smith")
	assert.Contains(t, rec.Applicant.Names, "Sarah Jones")
	assert.Equal(t, []string{"john.smith@example.co.uk"}, rec.Applicant.Emails)
	assert.Contains(t, rec.Applicant.Phones, "07700 900123")
	assert.Equal(t, []string{"Salary: £55,000"}, rec.Applicant.Income)
	assert.Equal(t, []string{"Northwind Traders Ltd"}, rec.Applicant.Employment)

	assert.Equal(t, []string{"NW1 6XE"}, rec.Property.Postcodes)
	assert.Contains(t, rec.Property.Addresses, "42 Baker Street, London NW1 6XE")
	assert.Equal(t, []string{"Purchase price: £450,000"}, rec.Property.Values)
	assert.Equal(t, []string{"Terraced house"}, rec.Property.Types)
	assert.Equal(t, []string{"house"}, rec.Property.DetectedTypes)

	assert.Contains(t, rec.Company.Names, "Northwind Traders Ltd")
	assert.Nil(t, rec.Company.RegistrationNumbers)
	assert.Nil(t, rec.Company.VATNumbers)
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	rec := NewAnalyzer().Analyze(model.NewRawInput("", ""))

	assert.True(t, rec.IsEmpty())
}

func TestAnalyzer_CompanyNameWithoutSubject(t *testing.T) {
	rec := NewAnalyzer().Analyze(model.NewRawInput("", "Acme Widgets Ltd"))

	assert.Contains(t, rec.Company.Names, "Acme Widgets Ltd")
}

func TestAnalyzer_AbsentFieldsAreOmittedFromJSON(t *testing.T) {
	rec := NewAnalyzer().Analyze(model.NewRawInput("Hello", "Write to a@b.com"))

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded["applicant"], "emails")
	assert.NotContains(t, decoded["applicant"], "phones")
	assert.NotContains(t, decoded["applicant"], "names")
	assert.Empty(t, decoded["company"])
}

func TestAnalyzer_Idempotent(t *testing.T) {
	analyzer := NewAnalyzer()
	in := model.NewRawInput("Mortgage application for Mr John Smith.", enquiryBody)

	assert.Equal(t, analyzer.Analyze(in), analyzer.Analyze(in))
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	analyzer := NewAnalyzer()
	in := model.NewRawInput("Mortgage application for Mr John Smith.", enquiryBody)
	want := analyzer.Analyze(in)

	var wg sync.WaitGroup
	results := make([]model.ExtractionRecord, 16)
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = analyzer.Analyze(in)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "result %d differs", i)
	}
}

func TestAnalyzer_NoBreakSpaces(t *testing.T) {
	body := "Phone: 07700\u00a0900123\nPostcode SW1A\u00a01AA\nEmployer: Acme\u00a0Widgets Ltd, since 2019"
	rec := NewAnalyzer().Analyze(model.NewRawInput("", body))

	assert.Equal(t, []string{"07700\u00a0900123"}, rec.Applicant.Phones)
	assert.Equal(t, []string{"SW1A\u00a01AA"}, rec.Property.Postcodes)
	assert.Equal(t, []string{"Acme\u00a0Widgets Ltd"}, rec.Applicant.Employment)
}
