package fileicon

import "testing"

func TestKind(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"photo.jpg", Image},
		{"photo.JPEG", Image},
		{"diagram.svg", Image},
		{"clip.mp4", Video},
		{"clip.MOV", Video},
		{"song.mp3", Audio},
		{"notes.txt", Document},
		{"report.pdf", Document},
		{"report.docx", Document},
		{"archive.zip", Generic},
		{"Makefile", Generic},
		{"", Generic},
		{"noext.", Generic},
		{"many.dots.tar.png", Image},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			if got := Kind(tt.fileName); got != tt.want {
				t.Errorf("Kind(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}
