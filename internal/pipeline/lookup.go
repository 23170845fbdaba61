package pipeline

import (
	"net/url"

	"github.com/ppiankov/mailfacts/internal/model"
)

// CompaniesHouseURL builds the public register link for a registration number
func CompaniesHouseURL(baseURL, number string) string {
	if baseURL == "" {
		baseURL = model.DefaultCompaniesHouseBaseURL
	}
	return baseURL + url.PathEscape(number)
}

// CompanyLookups returns one lookup per distinct registration number, in
// first-seen order
func CompanyLookups(baseURL string, numbers []string) []model.CompanyLookup {
	var lookups []model.CompanyLookup
	seen := make(map[string]bool)

	for _, number := range numbers {
		if seen[number] {
			continue
		}
		seen[number] = true
		lookups = append(lookups, model.CompanyLookup{
			RegistrationNumber: number,
			URL:                CompaniesHouseURL(baseURL, number),
		})
	}

	return lookups
}
