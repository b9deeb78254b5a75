// internal/importer/renamer.go
package importer

import (
	"path/filepath"
	"strings"

	"github.com/vmunix/mediagrab/internal/media"
)

// Destination computes where a downloaded file belongs:
//
//	<root>/<category>/<subpath>/<title>.<ext>
//
// Audio (and music videos) nest under artist/album, other videos under
// channel/series, and pictures are always flat. Every segment is sanitized.
func Destination(root string, t media.Type, meta media.Metadata) string {
	var subpath []string
	switch t {
	case media.TypeAudio:
		subpath = artistPath(meta)
	case media.TypePicture:
	default:
		if meta.IsMusicVideo() {
			subpath = artistPath(meta)
		} else {
			subpath = channelPath(meta)
		}
	}

	parts := make([]string, 0, len(subpath)+3)
	parts = append(parts, root, t.Category())
	for _, seg := range subpath {
		parts = append(parts, Sanitize(seg))
	}
	parts = append(parts, FileName(meta.Title, meta.Ext))
	return filepath.Join(parts...)
}

func artistPath(meta media.Metadata) []string {
	artist := strings.TrimSpace(meta.Artist)
	album := strings.TrimSpace(meta.Album)
	switch {
	case artist != "" && album != "":
		return []string{artist, album}
	case artist != "":
		return []string{artist}
	}
	return nil
}

func channelPath(meta media.Metadata) []string {
	channel := strings.TrimSpace(meta.Channel)
	series := strings.TrimSpace(meta.Series)
	switch {
	case channel != "" && series != "":
		return []string{channel, series}
	case channel != "":
		return []string{channel}
	}
	return nil
}

// FileName builds "<sanitized title>.<ext>", keeping the result within MaxNameLength.
func FileName(title, ext string) string {
	ext = cleanExt(ext)
	name := Sanitize(title)
	if ext == "" {
		return name
	}
	return truncate(name+"."+ext, MaxNameLength)
}

// cleanExt strips a leading dot and anything that is not a letter or digit.
func cleanExt(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, ext)
}
