package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} ") {
		t.Errorf("Template() = %q, want {{.Name}} prefix", got)
	}
	if !strings.Contains(got, String()) {
		t.Errorf("Template() = %q, want it to embed %q", got, String())
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("Template() = %q, want trailing newline", got)
	}
}
