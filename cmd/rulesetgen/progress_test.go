package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

func TestProgressModel(t *testing.T) {
	tests := []struct {
		name   string
		source ruleset.SourceKind
		want   string
	}{
		{"ai generated", ruleset.AIGenerated, "Ruleset generated by gemini  3s"},
		{"fallback", ruleset.FallbackTemplate, "Served fallback template  3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newProgressModel("gemini")
			m.now = func() time.Time { return m.start.Add(3500 * time.Millisecond) }

			if view := m.View(); !strings.Contains(view, "Generating ruleset with gemini") {
				t.Errorf("unexpected running view %q", view)
			}

			_, cmd := m.Update(generatedMsg{source: tt.source})
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if view := m.View(); !strings.Contains(view, tt.want) {
				t.Errorf("expected %q in %q", tt.want, view)
			}
		})
	}
}

func TestWithProgressNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	rs := withProgress(&buf, "gemini", func() ruleset.Ruleset {
		return ruleset.Ruleset{SourceKind: ruleset.AIGenerated}
	})
	if rs.SourceKind != ruleset.AIGenerated {
		t.Errorf("unexpected ruleset %+v", rs)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no progress output, got %q", buf.String())
	}
}
