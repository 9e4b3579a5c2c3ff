package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProviderList(t *testing.T) {
	refs := ParseProviderList("duckduckgo|serper:primary|serpapi:backup")
	require.Len(t, refs, 3)
	assert.Equal(t, "duckduckgo", refs[0].Name)
	assert.Empty(t, refs[0].KeyAlias)
	assert.Equal(t, "serper", refs[1].Name)
	assert.Equal(t, "primary", refs[1].KeyAlias)
	assert.Equal(t, "serpapi", refs[2].Name)
	assert.Equal(t, "backup", refs[2].KeyAlias)
}

func TestParseProviderListSkipsEmptyEntries(t *testing.T) {
	refs := ParseProviderList(" groq:dev || gemini ")
	require.Len(t, refs, 2)
	assert.Equal(t, "groq", refs[0].Name)
	assert.Equal(t, "dev", refs[0].KeyAlias)
	assert.Equal(t, "gemini", refs[1].Name)
}

func TestParseProviderListEmptyString(t *testing.T) {
	assert.Empty(t, ParseProviderList(""))
	assert.Empty(t, ParseProviderList("   "))
}
