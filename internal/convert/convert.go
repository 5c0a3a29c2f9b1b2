// internal/convert/convert.go

// Package convert preprocesses local files before upload: HTML sources
// can be rewritten as markdown (which indexes far better in a vector
// store than raw markup), and text content gets an approximate token
// count for reporting.
package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/pkoukk/tiktoken-go"
)

// IsConvertible reports whether the filename names an HTML document.
func IsConvertible(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// MarkdownName swaps the filename's extension for .md.
func MarkdownName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".md"
}

// HTMLToMarkdown converts an HTML document to markdown.
func HTMLToMarkdown(data []byte) ([]byte, error) {
	md, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}
	return []byte(md), nil
}

// IsText reports whether data looks like text content worth token
// counting: valid UTF-8 with no NUL bytes.
func IsText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, b := range data {
		if b == 0 {
			return false
		}
	}
	return true
}

// TokenEstimator counts approximate tokens in uploaded text.
type TokenEstimator struct {
	tokenizer *tiktoken.Tiktoken
}

// NewTokenEstimator creates an estimator on the cl100k_base encoding.
func NewTokenEstimator() (*TokenEstimator, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("get tokenizer: %w", err)
	}
	return &TokenEstimator{tokenizer: enc}, nil
}

// Estimate returns the token count for the given content.
func (e *TokenEstimator) Estimate(data []byte) int {
	return len(e.tokenizer.Encode(string(data), nil, nil))
}
