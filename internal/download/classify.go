package download

import (
	"fmt"
	"strings"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// Error classification is best-effort substring matching on the engine's
// error text. The engine does not expose structured error codes, so this
// table is advisory: it selects user messaging and nothing else. Keep every
// known substring here so an engine message change is a single-point update.
var classifiers = []struct {
	category model.ErrorCategory
	needles  []string
}{
	{model.CategoryAuth, []string{
		"sign in to confirm",
		"confirm you're not a bot",
		"login required",
		"age-restricted",
		"age restricted",
		"use --cookies",
		"account cookies",
	}},
	{model.CategoryNoFormats, []string{
		"requested format is not available",
		"no video formats found",
		"format is not available",
		"only images are available",
		"no suitable formats",
	}},
	{model.CategoryPermission, []string{
		"permission denied",
		"unable to open for writing",
		"read-only file system",
		"errno 13",
	}},
	{model.CategoryNetwork, []string{
		"timed out",
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure in name resolution",
		"network is unreachable",
		"unable to download webpage",
	}},
}

// Classify maps an extraction error to a category by inspecting its text.
func Classify(err error) model.ErrorCategory {
	if err == nil {
		return model.CategoryUnknown
	}
	text := strings.ToLower(err.Error())
	for _, c := range classifiers {
		for _, needle := range c.needles {
			if strings.Contains(text, needle) {
				return c.category
			}
		}
	}
	return model.CategoryUnknown
}

// Explain returns the user-facing explanation for a category.
func Explain(category model.ErrorCategory) string {
	switch category {
	case model.CategoryAuth:
		return "The source asked for a sign-in or bot check. Try the browser cookie option, or export a cookie file and point the downloader at it."
	case model.CategoryNoFormats:
		return "No usable audio format was offered for this video. It may be a live stream, members-only, or image-only content."
	case model.CategoryPermission:
		return "The destination folder refused the write. Check folder permissions and free disk space."
	case model.CategoryNetwork:
		return "The network connection to the source failed. Check your connection and try again."
	default:
		return "The download failed for an unrecognized reason."
	}
}

// ExhaustedMessage builds the aggregated explanation shown after every
// attempt in the plan has failed.
func ExhaustedMessage(attempts int, lastCategory model.ErrorCategory) string {
	return fmt.Sprintf(
		"All %d download methods failed. %s General checks: make sure the video has audio, that there is enough disk space, that ffmpeg is installed, and retry later.",
		attempts, Explain(lastCategory))
}
