// Package media defines the request and metadata types shared by the HTTP and
// queue entry points and the download pipeline.
package media

import "strings"

// Type is the kind of media a request asks for.
type Type string

const (
	TypeVideo   Type = "video"
	TypeAudio   Type = "audio"
	TypePicture Type = "picture"
)

// Types lists every supported media type.
var Types = []Type{TypeVideo, TypeAudio, TypePicture}

// ParseType parses a media type name (case-insensitive).
func ParseType(s string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeVideo:
		return TypeVideo, true
	case TypeAudio:
		return TypeAudio, true
	case TypePicture:
		return TypePicture, true
	}
	return "", false
}

// TypeOrDefault parses s, falling back to video when s is empty or unknown.
func TypeOrDefault(s string) Type {
	if t, ok := ParseType(s); ok {
		return t
	}
	return TypeVideo
}

// Category returns the top-level directory files of this type are stored under.
func (t Type) Category() string {
	switch t {
	case TypeAudio:
		return "audio"
	case TypePicture:
		return "pictures"
	default:
		return "video"
	}
}

func (t Type) String() string {
	if t == "" {
		return string(TypeVideo)
	}
	return string(t)
}

// Metadata is the subset of extractor output used to organize a file.
// Any field may be empty.
type Metadata struct {
	Title   string
	Artist  string
	Album   string
	Channel string
	Series  string
	Episode string
	Ext     string
}

// IsMusicVideo reports whether a video looks like a music video: it names an
// artist and carries no series/episode structure.
func (m Metadata) IsMusicVideo() bool {
	return m.Artist != "" && m.Series == "" && m.Episode == ""
}
