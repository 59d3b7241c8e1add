package lang

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"en", "eng", false},
		{"fr", "fra", false},
		{"de", "deu", false},
		{"en-US", "eng", false},
		{"pt-BR", "por", false},
		{"eng", "eng", false},       // already native
		{"chi_sim", "chi_sim", false}, // native with script suffix
		{"deu_frak", "deu_frak", false},
		{"osd", "osd", false},
		{"equ", "equ", false},
		{" en ", "eng", false},
		{"", "", true},
		{"123", "", true},
		{"q!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	got, err := NormalizeAll([]string{"en", "fra", "de"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"eng", "fra", "deu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := NormalizeAll([]string{"en", "???"}); err == nil {
		t.Error("expected error for invalid code in list")
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"eng", "fra"}); got != "eng+fra" {
		t.Errorf("expected eng+fra, got %q", got)
	}
	if got := Join([]string{"eng"}); got != "eng" {
		t.Errorf("expected eng, got %q", got)
	}
	if got := Join(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
