package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, "找不到產品", T("zh_TW", KeyProductNotFound))

	// Unknown languages fall back to English.
	assert.Equal(t, "Product not found", T("fr", KeyProductNotFound))

	// Unknown keys come back verbatim.
	assert.Equal(t, "bogus.key", T("en", "bogus.key"))
}

func TestTranslationFormatting(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	assert.Equal(t, "Minimum order quantity is 5", T("en", KeyOrderMinimumQuantity, 5))
	assert.Equal(t, "Order #ORD-20260114-1A2B3C4D placed successfully!", T("en", KeyOrderPlaced, "ORD-20260114-1A2B3C4D"))
}

func TestGetSupportedLanguages(t *testing.T) {
	require.NoError(t, Initialize("locales"))

	assert.ElementsMatch(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}
