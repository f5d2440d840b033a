package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGoodContent(t *testing.T) {
	content := strings.Repeat("This is a normal sentence about product strategy. ", 5)
	valid, checks := Validate(content)

	assert.True(t, valid)
	assert.True(t, checks.HasContent)
	assert.True(t, checks.HasSentences)
	assert.True(t, checks.NoExcessiveWhitespace)
	assert.True(t, checks.ReadableRatio)
}

func TestValidateTooShort(t *testing.T) {
	valid, checks := Validate("Short.")
	assert.False(t, valid)
	assert.False(t, checks.HasContent)
	assert.True(t, checks.HasSentences)
}

func TestValidateNoSentences(t *testing.T) {
	content := strings.Repeat("heading without punctuation ", 10)
	valid, checks := Validate(content)
	assert.False(t, valid)
	assert.False(t, checks.HasSentences)
}

func TestValidateExcessiveWhitespace(t *testing.T) {
	content := "A full sentence here." + strings.Repeat("\n\n\nfiller text goes here.", 6)
	valid, checks := Validate(content)
	assert.False(t, valid)
	assert.False(t, checks.NoExcessiveWhitespace)
}

func TestValidateUnreadableRatio(t *testing.T) {
	content := "Real words." + strings.Repeat("%$#@!&*{}<>|~", 20)
	valid, checks := Validate(content)
	assert.False(t, valid)
	assert.False(t, checks.ReadableRatio)
}

func TestValidateEmptyContent(t *testing.T) {
	valid, checks := Validate("")
	assert.False(t, valid)
	assert.False(t, checks.HasContent)
	// Empty content skips the ratio scan and keeps the default.
	assert.True(t, checks.ReadableRatio)
}
