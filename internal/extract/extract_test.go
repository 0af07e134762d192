package extract

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	re := regexp.MustCompile(`(?i)<td>(\w+)</td>\s*<td>(\d+)</td>`)
	body := `<table><td>alpha</td> <td>42</td><td>beta</td> <td>7</td></table>`

	groups, ok := First(body, re)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "42"}, groups)
}

func TestFirst_NoMatch(t *testing.T) {
	re := regexp.MustCompile(`<dd>(\w+)</dd>`)
	groups, ok := First("<p>nothing here</p>", re)
	assert.False(t, ok)
	assert.Nil(t, groups)
}

func TestAll(t *testing.T) {
	re := regexp.MustCompile(`<li>(\w+)</li>`)
	body := `<ul><li>one</li><li>two</li><li>three</li></ul>`

	got := All(body, re)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"one"}, got[0])
	assert.Equal(t, []string{"three"}, got[2])
}

func TestAll_NoMatch(t *testing.T) {
	re := regexp.MustCompile(`<li>(\w+)</li>`)
	assert.Empty(t, All("<p>plain</p>", re))
}

func TestAll_AttributeVariation(t *testing.T) {
	// Patterns are written attribute-order-insensitive; the same row shape
	// must match with and without attributes.
	re := regexp.MustCompile(`(?is)<td[^>]*>\s*(\d+)\s*</td>`)
	body := `<td class="c" align="right"> 12 </td><td>34</td>`

	got := All(body, re)
	require.Len(t, got, 2)
	assert.Equal(t, "12", got[0][0])
	assert.Equal(t, "34", got[1][0])
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Gosford & District ARC", Clean("  Gosford &amp;\n  District   ARC "))
	assert.Equal(t, `"quoted" 'apos'`, Clean("&quot;quoted&quot; &#39;apos&#39;"))
	assert.Equal(t, "", Clean("   \n\t "))
}
