package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/mailfacts/internal/model"
)

func extractProperty(text string) model.PropertyFacts {
	return NewPropertyExtractor().Extract(text, Normalize(text))
}

func TestPropertyExtractor_Postcode(t *testing.T) {
	facts := extractProperty("SW1A 1AA")

	assert.Equal(t, []string{"SW1A 1AA"}, facts.Postcodes)
	assert.Nil(t, facts.Addresses)
	assert.Nil(t, facts.DetectedTypes)
}

func TestPropertyExtractor_PostcodesDeduplicated(t *testing.T) {
	facts := extractProperty("SW1A 1AA and SW1A 1AA, M1 1AE")

	assert.Equal(t, []string{"SW1A 1AA", "M1 1AE"}, facts.Postcodes)
}

func TestPropertyExtractor_Addresses(t *testing.T) {
	facts := extractProperty("Property: 12 High Street, London SW1A 1AA")

	// The labelled pattern stops before the digits of the postcode; the
	// unlabelled one must end in a full postcode.
	assert.Equal(t, []string{"12 High Street, London SW", "12 High Street, London SW1A 1AA"}, facts.Addresses)
	assert.Equal(t, []string{"SW1A 1AA"}, facts.Postcodes)
}

func TestPropertyExtractor_ShortAddressRejected(t *testing.T) {
	facts := extractProperty("Address: 1 A")

	assert.Nil(t, facts.Addresses)
}

func TestPropertyExtractor_Values(t *testing.T) {
	facts := extractProperty("Purchase price: £350,000 and valuation £360,000.50")

	assert.Equal(t, []string{"Purchase price: £350,000", "valuation £360,000.50"}, facts.Values)
}

func TestPropertyExtractor_TypesAndVocabularyOrder(t *testing.T) {
	facts := extractProperty("Property type: Semi-detached house.\nType of property: Flat")

	assert.Equal(t, []string{"Semi-detached house", "Flat"}, facts.Types)
	require.NotNil(t, facts.DetectedTypes)
	assert.Equal(t, []string{"flat", "house"}, facts.DetectedTypes)
}

func TestPropertyExtractor_DetectedTypesIgnoreDiscoveryOrder(t *testing.T) {
	facts := extractProperty("A bright STUDIO, formerly a flat")

	assert.Equal(t, []string{"flat", "studio"}, facts.DetectedTypes)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "studio flat in sw1a", Normalize("Studio FLAT in SW1A"))
	assert.Equal(t, "", Normalize(""))
}

func TestPropertyExtractor_DedupPolicyPerField(t *testing.T) {
	addresses := extractProperty("We viewed 12 High St, London SW1A 1AA and 12 High St, London SW1A 1AA again")
	assert.Equal(t, []string{"12 High St, London SW1A 1AA"}, addresses.Addresses)

	types := extractProperty("Property type: Flat.\nProperty type: Flat.")
	assert.Equal(t, []string{"Flat", "Flat"}, types.Types)

	values := extractProperty("Value: £1. Value: £1.")
	assert.Equal(t, []string{"Value: £1", "Value: £1"}, values.Values)
}

func TestPropertyExtractor_NoBreakSpace(t *testing.T) {
	facts := extractProperty("Postcode SW1A\u00a01AA\nProperty type:\u00a0Flat.")

	assert.Equal(t, []string{"SW1A\u00a01AA"}, facts.Postcodes)
	assert.Equal(t, []string{"Flat"}, facts.Types)
}
