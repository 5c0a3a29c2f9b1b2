// internal/convert/convert_test.go
package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsConvertible(t *testing.T) {
	assert.True(t, IsConvertible("page.html"))
	assert.True(t, IsConvertible("page.htm"))
	assert.True(t, IsConvertible("PAGE.HTML"))
	assert.False(t, IsConvertible("page.md"))
	assert.False(t, IsConvertible("page.txt"))
	assert.False(t, IsConvertible("html"))
}

func TestMarkdownName(t *testing.T) {
	assert.Equal(t, "page.md", MarkdownName("page.html"))
	assert.Equal(t, "index.md", MarkdownName("index.htm"))
	assert.Equal(t, "a.b.md", MarkdownName("a.b.html"))
}

func TestHTMLToMarkdown(t *testing.T) {
	md, err := HTMLToMarkdown([]byte("<h1>Title</h1><p>Some <strong>bold</strong> text.</p>"))
	require.NoError(t, err)

	s := string(md)
	assert.Contains(t, s, "# Title")
	assert.Contains(t, s, "**bold**")
	assert.NotContains(t, s, "<p>")
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText([]byte("plain ascii")))
	assert.True(t, IsText([]byte("unicode: héllo wörld")))
	assert.True(t, IsText(nil))
	assert.False(t, IsText([]byte{0xff, 0xfe, 0x00}))
	assert.False(t, IsText([]byte("text with \x00 nul")))
}

func TestTokenEstimator(t *testing.T) {
	est, err := NewTokenEstimator()
	if err != nil {
		t.Skipf("tokenizer unavailable: %v", err)
	}

	n := est.Estimate([]byte("Hello, world! This is a short sentence."))
	assert.Greater(t, n, 0)
	assert.Less(t, n, 20)

	assert.Equal(t, 0, est.Estimate(nil))
}
