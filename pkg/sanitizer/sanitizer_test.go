package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim", input: "  Grand Hotel  ", want: "Grand Hotel"},
		{name: "inner whitespace", input: "Grand \t\n Hotel", want: "Grand Hotel"},
		{name: "only whitespace", input: " \t ", want: ""},
		{name: "unicode kept", input: " Hôtel  Étoile ", want: "Hôtel Étoile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Top 10 Beaches in Bali!", want: "top-10-beaches-in-bali"},
		{input: "  already-a-slug  ", want: "already-a-slug"},
		{input: "Café  au   lait --- Paris", want: "cafe-au-lait-paris"},
		{input: "!!!", want: ""},
		{input: "Über Straße", want: "uber-strasse"},
		{input: "Łódź Travel", want: "lodz-travel"},
		{input: "Øresund Bridge", want: "oresund-bridge"},
		{input: "Œuvre", want: "oeuvre"},
		{input: "Đurđevac Lodge", want: "durdevac-lodge"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if Slugify(got) != got {
				t.Errorf("Slugify not idempotent for %q", got)
			}
		})
	}
}

func TestNormalizeEmailAndUsername(t *testing.T) {
	if got := NormalizeEmail("  Maria@Example.COM "); got != "maria@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
	if got := NormalizeUsername("  MariaP "); got != "MariaP" {
		t.Errorf("NormalizeUsername() = %q, case must be preserved", got)
	}
}

func TestNormalizeRoomNumber(t *testing.T) {
	if got := NormalizeRoomNumber(" 1 02\t"); got != "102" {
		t.Errorf("NormalizeRoomNumber() = %q", got)
	}
}

func TestNormalizeAmenities(t *testing.T) {
	got := NormalizeAmenities([]string{" WiFi", "wifi", "", "Sea  View", "  "})
	want := []string{"wifi", "sea view"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeAmenities() = %v, want %v", got, want)
	}
	if empty := NormalizeAmenities(nil); empty == nil || len(empty) != 0 {
		t.Errorf("nil input should give an empty non-nil slice, got %#v", empty)
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "adds scheme", input: "cdn.example.com/img/Room.jpg", want: "https://cdn.example.com/img/Room.jpg"},
		{name: "lowercases host keeps path", input: "HTTPS://CDN.Example.com/A/B.PNG", want: "https://cdn.example.com/A/B.PNG"},
		{name: "drops utm params", input: "https://x.io/p?utm_source=mail&w=200", want: "https://x.io/p?w=200"},
		{name: "empty", input: "  ", want: ""},
		{name: "no host", input: "https://", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.input); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPipeline(t *testing.T) {
	p := Pipeline{trimAndLower, collapseHyphens}
	if got := p.Apply("  --A-B-- "); got != "a-b" {
		t.Errorf("Pipeline.Apply() = %q", got)
	}
}
