// Package langdetect infers the language of code snippets. The parser uses it
// to label fenced code blocks that were written without an info string, so
// the renderer can apply syntax highlighting.
package langdetect

import (
	"bytes"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be inferred with confidence.
const Unknown = "text"

// maxCached bounds the result cache. Streaming re-parses the same code
// blocks on every chunk, so most lookups hit.
const maxCached = 1024

//nolint:gochecknoglobals // Classifier candidates and result cache.
var (
	candidates = []string{
		"Go", "Python", "Shell", "JavaScript", "TypeScript",
		"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
		"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
	}

	cacheMu sync.Mutex
	cache   = make(map[uint64]string)
)

// snippet holds the views of a code sample the signals look at.
type snippet struct {
	raw     []byte
	trimmed []byte
	text    string
}

// signal is a cheap pattern that is highly indicative of one language.
type signal struct {
	lang  string
	match func(s *snippet) bool
}

// signals are tried in order; the first match wins.
//
//nolint:gochecknoglobals // Read-only rule table.
var signals = []signal{
	{"go", func(s *snippet) bool {
		return bytes.HasPrefix(s.trimmed, []byte("package "))
	}},
	{"python", looksLikePython},
	{"html", func(s *snippet) bool {
		lower := bytes.ToLower(s.trimmed)
		return containsAny(string(lower), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(s *snippet) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.Contains(s.trimmed, []byte(`"`))
	}},
	{"dockerfile", func(s *snippet) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(strings.Contains(s.text, "\nFROM ") && strings.Contains(s.text, "\nRUN ")) ||
			(strings.Contains(s.text, "WORKDIR ") && strings.Contains(s.text, "COPY "))
	}},
	{"sql", func(s *snippet) bool {
		upper := strings.ToUpper(strings.TrimSpace(s.text))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s *snippet) bool {
		return containsAny(s.text, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(s *snippet) bool {
		return containsAny(s.text, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", looksLikeYAML},
}

// Detect returns the language of content as a fence tag such as "go" or
// "bash", or Unknown.
//
// Detection tries a shebang line first, then the signal table and finally
// the go-enry classifier restricted to common languages.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Unknown
	}

	sum := xxhash.Sum64(content)
	cacheMu.Lock()
	lang, ok := cache[sum]
	cacheMu.Unlock()
	if ok {
		return lang
	}

	lang = detect(content)

	cacheMu.Lock()
	if len(cache) >= maxCached {
		clear(cache)
	}
	cache[sum] = lang
	cacheMu.Unlock()

	return lang
}

func detect(content []byte) string {
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}

	s := &snippet{
		raw:     content,
		trimmed: bytes.TrimSpace(content),
		text:    string(content),
	}
	for _, sig := range signals {
		if sig.match(s) {
			return sig.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return Unknown
}

func looksLikePython(s *snippet) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// Go groups imports with "import (".
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") &&
		(strings.Contains(s.text, "from ") || bytes.HasPrefix(s.trimmed, []byte("import "))) {
		return true
	}
	return containsAny(s.text, "__name__", "__main__")
}

// looksLikeYAML counts "key: value" lines and root list items.
func looksLikeYAML(s *snippet) bool {
	hits := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.ContainsAny(line, "({") && line[0] != '"' {
			hits++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			hits++
		}
	}
	return hits >= 2
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// fenceTag converts a go-enry language name to a fence info string.
func fenceTag(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
