package tags

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"

	"github.com/convert2mp3/convert2mp3/internal/platform"
)

// Cover art constraints
const (
	CoverMaxWidth    = 500
	CoverMaxHeight   = 500
	CoverJPEGQuality = 85
)

// Thumbnail fetch timeout
const (
	DefaultFetchTimeout = 30 * time.Second
)

// Set is the metadata applied to one produced file.
type Set struct {
	Artist       string
	Album        string
	Title        string
	ThumbnailURL string
}

// Writer applies ID3 tags and embeds cover art into produced audio files.
type Writer struct {
	client *http.Client
	logger zerolog.Logger
}

// NewWriter creates a tag writer.
func NewWriter(logger zerolog.Logger) *Writer {
	return &Writer{
		client: &http.Client{Timeout: DefaultFetchTimeout},
		logger: logger,
	}
}

// Apply writes artist/album/title frames and embeds the cover image. Text
// frames overwrite existing values. Cover embedding is best-effort: a fetch
// or decode failure is logged and does not fail the call, because tag fields
// matter more than artwork.
func (w *Writer) Apply(path string, set Set) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetArtist(set.Artist)
	tag.SetAlbum(set.Album)
	tag.SetTitle(set.Title)

	if set.ThumbnailURL != "" {
		if cover, err := w.fetchCover(set.ThumbnailURL, filepath.Dir(path), set.Title); err != nil {
			w.logger.Warn().Err(err).Str("file", path).Msg("cover embedding skipped")
		} else {
			// Replace rather than accumulate picture frames.
			tag.DeleteFrames(tag.CommonID("Attached picture"))
			tag.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    "image/jpeg",
				PictureType: id3v2.PTFrontCover,
				Description: "Cover",
				Picture:     cover,
			})
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

// fetchCover downloads the thumbnail to a temporary file next to the audio
// file, downscales it to fit CoverMaxWidth x CoverMaxHeight preserving
// aspect ratio, and re-encodes it as JPEG. The temporary file is removed
// before returning.
func (w *Writer) fetchCover(url, dir, title string) ([]byte, error) {
	resp, err := w.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch thumbnail: status %d", resp.StatusCode)
	}

	tmpPath := filepath.Join(dir, platform.SanitizeFileName(title)+".jpg")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("create thumbnail file: %w", err)
	}
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("save thumbnail: %w", err)
	}
	tmp.Close()

	raw, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("reopen thumbnail: %w", err)
	}
	defer raw.Close()

	img, _, err := image.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail: %w", err)
	}

	scaled := resize.Thumbnail(CoverMaxWidth, CoverMaxHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: CoverJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}

	w.logger.Debug().Str("url", url).Int("bytes", buf.Len()).Msg("cover prepared")
	return buf.Bytes(), nil
}
