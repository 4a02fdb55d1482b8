package model

// QualityTier is the target MP3 bitrate in kbit/s.
type QualityTier int

const (
	Quality128 QualityTier = 128
	Quality192 QualityTier = 192
	Quality320 QualityTier = 320
)

// IsValid reports whether the tier is one of the supported bitrates.
func (q QualityTier) IsValid() bool {
	return q == Quality128 || q == Quality192 || q == Quality320
}

// SpeedProfile trades conversion speed against output quality.
type SpeedProfile string

const (
	SpeedFast     SpeedProfile = "fast"
	SpeedBalanced SpeedProfile = "balanced"
	SpeedQuality  SpeedProfile = "quality"
)

// FormatPref selects which delivery formats are requested from the source.
type FormatPref string

const (
	// FormatAuto lets the strategy builder decide based on AvoidHLS.
	FormatAuto FormatPref = "auto"

	// FormatDirect prefers plain HTTP streams and avoids segmented delivery.
	FormatDirect FormatPref = "direct"

	// FormatCompatible accepts any delivery format, including HLS.
	FormatCompatible FormatPref = "compatible"
)

// CookieMode selects how credentials are passed to the extraction engine.
type CookieMode string

const (
	CookieNone    CookieMode = "none"
	CookieBrowser CookieMode = "browser"
	CookieFile    CookieMode = "file"
)

// Default metadata values applied when the user leaves fields empty.
const (
	DefaultArtist = "Unknown"
	DefaultAlbum  = "Unknown"
	DefaultTitle  = "Unknown Title"
)

// DownloadRequest carries everything needed to run one download session.
type DownloadRequest struct {
	URL       string
	OutputDir string
	Artist    string
	Album     string

	Quality  QualityTier
	Speed    SpeedProfile
	Format   FormatPref
	AvoidHLS bool

	CookieMode    CookieMode
	CookieFile    string // netscape cookie file, CookieFile mode only
	CookieBrowser string // browser profile name, CookieBrowser mode only
}

// Normalize fills zero-valued fields with defaults so downstream code
// never has to special-case empty input.
func (r *DownloadRequest) Normalize() {
	if r.Artist == "" {
		r.Artist = DefaultArtist
	}
	if r.Album == "" {
		r.Album = DefaultAlbum
	}
	if !r.Quality.IsValid() {
		r.Quality = Quality192
	}
	if r.Speed == "" {
		r.Speed = SpeedBalanced
	}
	if r.Format == "" {
		r.Format = FormatAuto
	}
	if r.CookieMode == "" {
		r.CookieMode = CookieNone
	}
}
