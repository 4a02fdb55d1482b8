package strategy

import (
	"errors"
	"fmt"
	"os"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// ErrNoClients means the player client list is empty. The list is part of
// process configuration, so an empty list is a configuration error, not a
// per-request condition.
var ErrNoClients = errors.New("strategy: no player clients configured")

// DefaultClients are the player clients the engine can impersonate, in
// preference order. Different clients are served different format sets, so
// rotating through them routes around source-side delivery restrictions.
var DefaultClients = []string{"android", "ios", "web", "tv"}

// Format selector expressions, from most restrictive to broadest.
const (
	// selectorDirectM4A prefers a plain-HTTP m4a/webm audio stream.
	selectorDirectM4A = "bestaudio[ext=m4a][protocol!*=m3u8]/bestaudio[ext=webm][protocol!*=m3u8]"

	// selectorDirectAny accepts any non-HLS stream with audio.
	selectorDirectAny = "bestaudio[protocol!*=m3u8]/best[protocol!*=m3u8]"

	// selectorUnrestricted accepts anything, HLS included.
	selectorUnrestricted = "bestaudio/best"

	// selectorCappedVideo pulls a modest video container as a last resort;
	// the audio is extracted by post-processing anyway.
	selectorCappedVideo = "best[height<=480]"
)

// directClientCount limits how many clients get the restrictive selectors.
const directClientCount = 2

// BuildPlan computes the ordered attempt sequence for one request. Earlier
// entries are faster, more restrictive configurations; the tail is the
// unconditional fallback pair per client, so a non-empty client list always
// yields at least two attempts.
//
// When the request uses a cookie file, the file is checked for readability
// here, before any attempt starts; a missing or unreadable file fails the
// whole request.
func BuildPlan(req model.DownloadRequest, clients []string) (model.StrategyPlan, error) {
	if len(clients) == 0 {
		return nil, ErrNoClients
	}

	if req.CookieMode == model.CookieFile {
		f, err := os.Open(req.CookieFile)
		if err != nil {
			return nil, fmt.Errorf("cookie file: %w", err)
		}
		f.Close()
	}

	post := postArgs(req.Speed)

	var plan model.StrategyPlan
	add := func(client, selector string) {
		plan = append(plan, model.AttemptConfig{
			FormatSelector: selector,
			Codec:          "mp3",
			Bitrate:        int(req.Quality),
			PostArgs:       post,
			Client:         client,
			OutputDir:      req.OutputDir,
			CookieMode:     req.CookieMode,
			CookieFile:     req.CookieFile,
			CookieBrowser:  req.CookieBrowser,
		})
	}

	direct := req.Format == model.FormatDirect ||
		(req.Format == model.FormatAuto && req.AvoidHLS)

	if direct {
		n := directClientCount
		if len(clients) < n {
			n = len(clients)
		}
		for _, client := range clients[:n] {
			add(client, selectorDirectM4A)
			add(client, selectorDirectAny)
		}
	} else {
		for _, client := range clients {
			add(client, selectorUnrestricted)
		}
	}

	// Unconditional fallbacks, appended regardless of preference.
	for _, client := range clients {
		add(client, selectorUnrestricted)
		add(client, selectorCappedVideo)
	}

	return plan, nil
}

// postArgs maps the speed/quality tradeoff to ffmpeg arguments for the
// audio extraction step. Thread count is left to ffmpeg.
func postArgs(speed model.SpeedProfile) []string {
	switch speed {
	case model.SpeedFast:
		return []string{"-preset", "ultrafast", "-loglevel", "error"}
	case model.SpeedQuality:
		return []string{"-preset", "slow", "-loglevel", "verbose"}
	default:
		return []string{"-preset", "medium", "-loglevel", "warning"}
	}
}
