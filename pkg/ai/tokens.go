package ai

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "o200k_base"

var loadEncoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding(encodingName)
})

// CountTokens returns the o200k token count of s. When the encoding cannot be
// loaded it estimates four bytes per token.
func CountTokens(s string) int {
	if s == "" {
		return 0
	}
	enc, err := loadEncoding()
	if err != nil {
		return (len(s) + 3) / 4
	}
	return len(enc.Encode(s, nil, nil))
}

// TruncateTokens cuts s to at most max tokens. Strings with no more runes
// than max are returned without touching the encoder.
func TruncateTokens(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	enc, err := loadEncoding()
	if err != nil {
		return truncateRunes(s, max*4)
	}
	tokens := enc.Encode(s, nil, nil)
	if len(tokens) <= max {
		return s
	}
	return enc.Decode(tokens[:max])
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
