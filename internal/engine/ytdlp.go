package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// Progress callback interval
const (
	DefaultProgressInterval = 500 * time.Millisecond
)

// Filename template passed to yt-dlp
const (
	OutputTemplate = "%(title)s.%(ext)s"
)

// Extensions yt-dlp reports before the audio post-processor rewrites the
// container.
var mediaExtensions = []string{".webm", ".m4a", ".mp4", ".opus", ".ogg"}

// YTDLP drives the yt-dlp binary through go-ytdlp.
type YTDLP struct {
	interval time.Duration
	logger   zerolog.Logger
}

// NewYTDLP creates a yt-dlp backed extractor.
func NewYTDLP(logger zerolog.Logger) *YTDLP {
	return &YTDLP{
		interval: DefaultProgressInterval,
		logger:   logger,
	}
}

// Extract runs one extraction attempt. The attempt configuration maps
// directly onto yt-dlp flags: format selector, audio post-processing,
// player client hint, and optional cookies.
func (e *YTDLP) Extract(ctx context.Context, cfg model.AttemptConfig, url string, onProgress func(Progress)) (*Result, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		Output(filepath.Join(cfg.OutputDir, OutputTemplate)).
		Format(cfg.FormatSelector).
		ExtractAudio().
		AudioFormat(cfg.Codec).
		AudioQuality(fmt.Sprintf("%dK", cfg.Bitrate)).
		ExtractorArgs("youtube:player_client=" + cfg.Client)

	if len(cfg.PostArgs) > 0 {
		dl = dl.PostProcessorArgs("ffmpeg:" + strings.Join(cfg.PostArgs, " "))
	}

	switch cfg.CookieMode {
	case model.CookieBrowser:
		dl = dl.CookiesFromBrowser(cfg.CookieBrowser)
	case model.CookieFile:
		dl = dl.Cookies(cfg.CookieFile)
	}

	dl.ProgressFunc(e.interval, func(update ytdlp.ProgressUpdate) {
		if onProgress == nil {
			return
		}
		onProgress(Progress{
			DownloadedBytes: int64(update.DownloadedBytes),
			TotalBytes:      int64(update.TotalBytes),
			Phase:           string(update.Status),
		})
	})

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp result: %w", err)
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("yt-dlp produced no files")
	}

	items := make([]Item, 0, len(info))
	for _, entry := range info {
		item := Item{}
		if entry.Title != nil {
			item.Title = *entry.Title
		}
		if entry.Filename != nil {
			item.FilePath = audioPath(*entry.Filename, cfg.Codec)
		}
		if entry.Thumbnail != nil {
			item.ThumbnailURL = *entry.Thumbnail
		}
		if item.FilePath == "" {
			e.logger.Warn().Str("title", item.Title).Msg("extracted entry has no filename, skipping")
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("yt-dlp reported success but no output paths")
	}

	return &Result{Items: items}, nil
}

// audioPath rewrites the reported media path to the post-processed audio
// file, mirroring yt-dlp's container swap after audio extraction.
func audioPath(path, codec string) string {
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext) + "." + codec
		}
	}
	return path
}
