package shadersrc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePrecision(t *testing.T) {
	tests := []struct {
		in      string
		want    Precision
		wantErr bool
	}{
		{in: "default,default,default,default", want: Precision{}},
		{in: "", want: Precision{}},
		{in: "high", want: Precision{Int: PrecisionHigh}},
		{in: "low,medium", want: Precision{Int: PrecisionLow, Float: PrecisionMedium}},
		{in: "high, high ,low,medium", want: Precision{
			Int: PrecisionHigh, Float: PrecisionHigh, Sampler2D: PrecisionLow, SamplerCube: PrecisionMedium,
		}},
		{in: "ultra", wantErr: true},
		{in: "high,high,high,high,high", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrecision(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrecision(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParsePrecision(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestPrecisionStringRoundTrip(t *testing.T) {
	p := Precision{Int: PrecisionLow, Float: PrecisionHigh, SamplerCube: PrecisionMedium}
	if got, want := p.String(), "low,high,default,medium"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	back, err := ParsePrecision(p.String())
	if err != nil {
		t.Fatalf("ParsePrecision() error = %v", err)
	}
	if back != p {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}

func TestApplyPrecision(t *testing.T) {
	src := "#version 300 es\n\nprecision highp float;\nprecision highp int;\n\nvoid main() {}\n"

	tests := []struct {
		name string
		src  string
		p    Precision
		want string
	}{
		{
			name: "all default keeps source",
			src:  src,
			p:    Precision{},
			want: src,
		},
		{
			name: "override float only",
			src:  src,
			p:    Precision{Float: PrecisionMedium},
			want: "#version 300 es\nprecision mediump float;\n\nprecision highp int;\n\nvoid main() {}\n",
		},
		{
			name: "override int and samplers",
			src:  src,
			p:    Precision{Int: PrecisionLow, Sampler2D: PrecisionHigh},
			want: "#version 300 es\nprecision lowp int;\nprecision highp sampler2D;\n\nprecision highp float;\n\nvoid main() {}\n",
		},
		{
			name: "no version directive",
			src:  "void main() {}",
			p:    Precision{Float: PrecisionLow},
			want: "precision lowp float;\nvoid main() {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyPrecision(tt.src, tt.p)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ApplyPrecision() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
