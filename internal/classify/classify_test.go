package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyByName(t *testing.T) {
	c := New()
	assert.Equal(t, "product_ai", c.Classify("Lenny's Newsletter", "lenny@substack.com"))
	assert.Equal(t, "health_fitness", c.Classify("The Morning Shakeout", "mario@example.com"))
	assert.Equal(t, "finance", c.Classify("Chartr", "hello@chartr.co"))
	assert.Equal(t, "sahil_bloom", c.Classify("Sahil Bloom", "sahil@kit-mail.com"))
}

func TestClassifyByEmail(t *testing.T) {
	c := New()
	assert.Equal(t, "product_ai", c.Classify("Ben", "news@stratechery.com"))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := New()
	assert.Equal(t, "product_ai", c.Classify("TLDR AI", "DAN@TLDRNEWSLETTER.COM"))
}

func TestClassifyFallsBackToDefault(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultCategory, c.Classify("Totally Unknown", "who@nowhere.example"))
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c := &Classifier{
		rules: []Rule{
			{Pattern: "sweat", Category: "health_fitness"},
			{Pattern: "sweat science", Category: "finance"},
		},
		defaultCategory: DefaultCategory,
	}
	// Both patterns match; the earlier entry decides.
	assert.Equal(t, "health_fitness", c.Classify("Sweat Science", "alex@example.com"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `default_category: misc
rules:
  - pattern: acme
    category: tech
  - pattern: acme corp
    category: business
labels:
  tech: Technology
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "tech", c.Classify("ACME Weekly", "news@acme.com"))
	assert.Equal(t, "misc", c.Classify("Other", "x@y.z"))
	assert.Equal(t, "Technology", c.Label("tech"))
	assert.Equal(t, "misc", c.Label("misc"))
}

func TestLoadFromFileEmptyRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	c := New()
	cats := c.Categories()
	assert.Contains(t, cats, "product_ai")
	assert.Contains(t, cats, "health_fitness")
	assert.Contains(t, cats, "finance")
	assert.Contains(t, cats, "sahil_bloom")
	// product_ai appears first because its rules come first.
	assert.Equal(t, "product_ai", cats[0])
}
