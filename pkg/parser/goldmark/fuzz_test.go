package goldmark

import (
	"context"
	"testing"

	"github.com/yaklabco/gomdview/pkg/block"
)

// FuzzParse checks that any input yields a valid, deterministic sequence.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"Hello, world!",
		"# Heading",
		"- list item\n  - nested",
		"1. ordered item",
		"> blockquote\n> > deeper",
		"```\ncode\n```",
		"```go\nfunc main() {}\n```",
		"*emphasis* **strong** `code` [link](url) ![image](src)",
		"---",
		"<div>html</div>",
		"Title\n=====",
		"line1\r\nline2",
		"| a | b |\n|---|---|\n| 1 | 2 |",
		"- [x] task",
		"```\nunterminated",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	p := New(FlavorGFM)
	f.Fuzz(func(t *testing.T, data []byte) {
		first, err := p.Parse(context.Background(), data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if err := block.Validate(first); err != nil {
			t.Fatalf("invalid sequence: %v", err)
		}

		second, err := p.Parse(context.Background(), data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("block count changed between parses: %d != %d", len(first), len(second))
		}
		for i := range first {
			if block.Compare(first[i], second[i]) != block.ChangeNone {
				t.Fatalf("block %d differs between parses", i)
			}
		}
	})
}
