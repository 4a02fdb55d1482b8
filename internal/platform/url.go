package platform

import (
	"regexp"
	"strings"
)

// Recognized YouTube address shapes. Scheme and www. prefix are optional.
var (
	watchURLPattern    = regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?(?:[^\s]*&)?v=[A-Za-z0-9_-]{6,}`)
	shortURLPattern    = regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/[A-Za-z0-9_-]{6,}`)
	playlistURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/playlist\?(?:[^\s]*&)?list=[A-Za-z0-9_-]+`)
)

// IsSupportedURL reports whether raw matches one of the recognized address
// shapes: canonical watch URL, short link, or playlist listing. Returns false
// for anything else, including empty input. No network access.
func IsSupportedURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	return watchURLPattern.MatchString(raw) ||
		shortURLPattern.MatchString(raw) ||
		playlistURLPattern.MatchString(raw)
}

// IsPlaylistURL reports whether raw is a playlist listing URL.
func IsPlaylistURL(raw string) bool {
	return playlistURLPattern.MatchString(strings.TrimSpace(raw))
}

// ExtractPlaylistID pulls the list parameter out of a playlist URL.
// Returns an empty string when no playlist ID is present.
func ExtractPlaylistID(raw string) string {
	idx := strings.Index(raw, "list=")
	if idx < 0 {
		return ""
	}
	id := raw[idx+len("list="):]
	if amp := strings.IndexAny(id, "&#"); amp >= 0 {
		id = id[:amp]
	}
	return id
}
