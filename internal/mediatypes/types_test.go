package mediatypes

import "testing"

func TestIsImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"portrait.jpg", true},
		{"portrait.JPEG", true},
		{"dunes.png", true},
		{"pepper.webp", true},
		{"anim.gif", true},
		{"catalog.yaml", false},
		{"notes.txt", false},
		{"jpg", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsImage(tt.name); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestEncoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext    string
		want   Backend
		wantOK bool
	}{
		{".webp", BackendVips, true},
		{".WEBP", BackendVips, true},
		{".jpg", BackendImaging, true},
		{".png", BackendImaging, true},
		{".avif", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Encoder(tt.ext)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Encoder(%q) = (%q, %v), want (%q, %v)", tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}
}
