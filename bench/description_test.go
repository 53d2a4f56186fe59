package bench

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDescription(t *testing.T) {
	tests := []struct {
		desc     string
		wantName string
		wantOpts []OptionValue
	}{
		{"loop", "loop", nil},
		{"loop:vertex-steps=5", "loop", []OptionValue{{"vertex-steps", "5"}}},
		{
			"loop:vertex-steps=5:fragment-loop=false",
			"loop",
			[]OptionValue{{"vertex-steps", "5"}, {"fragment-loop", "false"}},
		},
		{"loop:vertex-precision=high,low", "loop", []OptionValue{{"vertex-precision", "high,low"}}},
		{"loop:duration=", "loop", []OptionValue{{"duration", ""}}},
		{"loop::duration=1:", "loop", []OptionValue{{"duration", "1"}}},
		{"  loop:a=b  ", "loop", []OptionValue{{"a", "b"}}},
		{":duration=2.0", "", []OptionValue{{"duration", "2.0"}}},
		{"loop:expr=a=b", "loop", []OptionValue{{"expr", "a=b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			name, opts, err := ParseDescription(tt.desc)
			if err != nil {
				t.Fatalf("ParseDescription() failed: %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if diff := cmp.Diff(tt.wantOpts, opts); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDescriptionErrors(t *testing.T) {
	for _, desc := range []string{"", "   ", ":", "::"} {
		if _, _, err := ParseDescription(desc); !errors.Is(err, ErrEmptyDescription) {
			t.Errorf("ParseDescription(%q) error = %v, want ErrEmptyDescription", desc, err)
		}
	}
	for _, desc := range []string{"loop:vertex-steps", "loop:=5"} {
		if _, _, err := ParseDescription(desc); err == nil {
			t.Errorf("ParseDescription(%q) returned nil error", desc)
		}
	}
}

func TestMergeDefaults(t *testing.T) {
	dst := map[string]string{"duration": "10.0", "grid-size": "8"}
	if err := MergeDefaults(dst, ":duration=1.0:vertex-steps=3"); err != nil {
		t.Fatalf("MergeDefaults() failed: %v", err)
	}
	want := map[string]string{"duration": "1.0", "grid-size": "8", "vertex-steps": "3"}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	if err := MergeDefaults(dst, "loop:duration=1"); err == nil {
		t.Error("MergeDefaults() accepted a scene description")
	}
	if !IsDefaults(" :duration=1") || IsDefaults("loop:duration=1") {
		t.Error("IsDefaults() misclassified a description")
	}
}
