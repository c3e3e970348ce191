package storage

import "testing"

func TestAllowedImage(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"photo.png", true},
		{"anim.gif", true},
		{"archive.zip", false},
		{"script.sh", false},
		{"noextension", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := AllowedImage(tt.filename); got != tt.want {
			t.Errorf("AllowedImage(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"weird!@#name.png", "weirdname.png"},
		{"", "upload"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
