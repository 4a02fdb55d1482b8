package model

// AttemptConfig is a single extraction configuration. The orchestrator
// tries the plan entries strictly in order until one succeeds.
type AttemptConfig struct {
	// FormatSelector is the engine format expression, e.g.
	// "bestaudio[protocol!*=m3u8]/best[protocol!*=m3u8]".
	FormatSelector string

	// Codec and Bitrate describe the audio post-processing target.
	Codec   string
	Bitrate int

	// PostArgs are extra ffmpeg arguments for the audio extraction step.
	PostArgs []string

	// Client is the player client the engine should impersonate
	// ("android", "ios", "web", "tv").
	Client string

	// OutputDir is where the engine writes the resulting file.
	OutputDir string

	CookieMode    CookieMode
	CookieFile    string
	CookieBrowser string
}

// StrategyPlan is an ordered list of attempts. Earlier entries are the
// preferred, more restrictive configurations; later entries are broad
// fallbacks.
type StrategyPlan []AttemptConfig
