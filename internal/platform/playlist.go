package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// Timeout constants
const (
	DefaultPreviewTimeout = 60 * time.Second
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
)

// PlaylistParser fetches playlist metadata before a download starts so
// shells can show what a playlist URL will pull.
type PlaylistParser struct {
	timeout time.Duration
}

// NewPlaylistParser creates a new parser service
func NewPlaylistParser() *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultPreviewTimeout,
	}
}

// SetTimeout sets the timeout for preview operations
func (p *PlaylistParser) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Preview parses a playlist URL and returns its entries without downloading.
func (p *PlaylistParser) Preview(ctx context.Context, url string) (*model.PlaylistPreview, error) {
	if !IsPlaylistURL(url) {
		return nil, fmt.Errorf("not a playlist URL: %s", url)
	}

	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	videos := make([]model.PlaylistVideo, 0, len(items))
	for _, it := range items {
		videos = append(videos, model.PlaylistVideo{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}

	title := DefaultPlaylistName
	if len(videos) > 0 && videos[0].Title != "" {
		title = videos[0].Title + " Playlist"
	}

	return &model.PlaylistPreview{
		ID:     playlistID,
		Title:  title,
		Videos: videos,
	}, nil
}
