package conventional

import (
	"reflect"
	"testing"

	"github.com/Spoutnik97/releaser/pkg/semver"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{
			"195eabb15 fix(prediction): fix all the prediction refetch. The UX was flickering",
			"**prediction**: fix all the prediction refetch. The UX was flickering",
		},
		{
			"081b0001c fix(quote request line): the process step product lines name and price were not updated",
			"**quote request line**: the process step product lines name and price were not updated",
		},
		{
			"f0c7441f1 feat(quote request line): fix React Hook Form context in sync with API",
			"**quote request line**: fix React Hook Form context in sync with API",
		},
		{
			"a1b2c3d !fix(core): drop the legacy endpoint",
			"**core**: drop the legacy endpoint",
		},
		// The hash token is any word, not just hex digits.
		{"h1 feat(x): add thing", "**x**: add thing"},
		// Lines outside the structural pattern pass through verbatim.
		{"d4e5f6a chore: tidy up", "d4e5f6a chore: tidy up"},
		{"not a commit line", "not a commit line"},
	}

	for _, tt := range tests {
		if got := FormatLine(tt.line); got != tt.want {
			t.Errorf("FormatLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	subjects := []string{
		"h1 feat(x): add thing",
		"h2 fix(y): fix thing",
		"h3 perf(z): speed up thing",
		"h4 chore(deps): bump stuff",
	}

	s, bump := Classify(subjects)

	if bump != semver.Minor {
		t.Errorf("bump = %v, want %v", bump, semver.Minor)
	}
	if want := []string{"**x**: add thing"}; !reflect.DeepEqual(s.Features, want) {
		t.Errorf("Features = %v, want %v", s.Features, want)
	}
	if want := []string{"**y**: fix thing"}; !reflect.DeepEqual(s.Fixes, want) {
		t.Errorf("Fixes = %v, want %v", s.Fixes, want)
	}
	if want := []string{"**z**: speed up thing"}; !reflect.DeepEqual(s.Performance, want) {
		t.Errorf("Performance = %v, want %v", s.Performance, want)
	}
	if len(s.Breaking) != 0 {
		t.Errorf("Breaking = %v, want empty", s.Breaking)
	}
}

func TestClassifyBreaking(t *testing.T) {
	s, bump := Classify([]string{"a1b2c3 !fix(core): breaking change"})

	if bump != semver.Major {
		t.Errorf("bump = %v, want %v", bump, semver.Major)
	}
	// A breaking fix is both a fix and a breaking entry.
	if len(s.Fixes) != 1 || len(s.Breaking) != 1 {
		t.Errorf("Fixes = %v, Breaking = %v, want one entry each", s.Fixes, s.Breaking)
	}
}

func TestClassifyDefaultsToPatch(t *testing.T) {
	_, bump := Classify([]string{"h1 chore: nothing interesting"})
	if bump != semver.Patch {
		t.Errorf("bump = %v, want %v", bump, semver.Patch)
	}

	_, bump = Classify(nil)
	if bump != semver.Patch {
		t.Errorf("bump for empty history = %v, want %v", bump, semver.Patch)
	}
}

func TestClassifyBumpOrderInsensitive(t *testing.T) {
	forward := []string{"h1 feat(x): add", "h2 fix(y): fix", "h3 perf(z): tune"}
	reversed := []string{"h3 perf(z): tune", "h2 fix(y): fix", "h1 feat(x): add"}

	_, a := Classify(forward)
	_, b := Classify(reversed)
	if a != b {
		t.Errorf("bump differs under reordering: %v vs %v", a, b)
	}

	// Bucket contents keep commit order.
	s, _ := Classify([]string{"h1 fix(a): first", "h2 fix(b): second"})
	want := []string{"**a**: first", "**b**: second"}
	if !reflect.DeepEqual(s.Fixes, want) {
		t.Errorf("Fixes = %v, want %v", s.Fixes, want)
	}
}

func TestDetermineTarget(t *testing.T) {
	tests := []struct {
		name     string
		subjects []string
		want     semver.Bump
	}{
		{"empty", nil, semver.Patch},
		{"fixes only", []string{"h1 fix(a): x"}, semver.Patch},
		{"feature", []string{"h1 fix(a): x", "h2 feat(b): y"}, semver.Minor},
		{"breaking feat", []string{"h1 !feat(a): x"}, semver.Major},
		{"breaking short-circuits", []string{"h1 !fix(a): x", "h2 feat(b): y"}, semver.Major},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineTarget(tt.subjects); got != tt.want {
				t.Errorf("DetermineTarget = %v, want %v", got, tt.want)
			}
		})
	}
}
