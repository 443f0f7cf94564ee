// Package fileicon maps file names to display icon kinds.
package fileicon

import (
	"path/filepath"
	"strings"
)

// Icon kinds understood by the templates and stylesheet.
const (
	Image    = "image"
	Video    = "video"
	Audio    = "audio"
	Document = "document"
	Generic  = "file"
)

var kinds = map[string]string{
	"jpg":  Image,
	"jpeg": Image,
	"png":  Image,
	"gif":  Image,
	"webp": Image,
	"svg":  Image,

	"mp4":  Video,
	"webm": Video,
	"mov":  Video,

	"mp3": Audio,
	"wav": Audio,
	"ogg": Audio,

	"pdf":  Document,
	"doc":  Document,
	"docx": Document,
	"txt":  Document,
}

// Kind returns the icon kind for a file name, based on the extension
// after the last dot, case-insensitive. Unknown and missing extensions
// get the generic icon. Display only.
func Kind(fileName string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if k, ok := kinds[ext]; ok {
		return k
	}
	return Generic
}
