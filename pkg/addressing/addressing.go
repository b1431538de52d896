package addressing

import (
	"errors"
	"strings"
)

// Suffix is the default host suffix that carries the language name:
// requests for language <lang> arrive addressed to "<lang>.docs".
const Suffix = ".docs"

var (
	// ErrMissingHost indicates the request carried no host value.
	ErrMissingHost = errors.New("missing host")
	// ErrBadSuffix indicates the host does not end in the language suffix.
	ErrBadSuffix = errors.New("host missing language suffix")
	// ErrEmptyLanguage indicates the host is the bare suffix with no language.
	ErrEmptyLanguage = errors.New("empty language in host")
)

// Language extracts the language name from a request host by requiring the
// given suffix. A port, if present, is ignored, and the result is lowercased
// since hostnames are case-insensitive.
func Language(host, suffix string) (string, error) {
	if host == "" {
		return "", ErrMissingHost
	}
	if idx := strings.IndexByte(host, ':'); idx != -1 {
		host = host[:idx]
	}
	host = strings.ToLower(host)

	lang, ok := strings.CutSuffix(host, suffix)
	if !ok {
		return "", ErrBadSuffix
	}
	if lang == "" {
		return "", ErrEmptyLanguage
	}
	return lang, nil
}
