package engine

import (
	"context"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// Progress is one incremental update from a running extraction. TotalBytes
// is zero when the engine does not know the final size.
type Progress struct {
	DownloadedBytes int64
	TotalBytes      int64
	Phase           string
}

// Item is one produced media file. A single video yields one item, a
// playlist yields one per entry.
type Item struct {
	Title        string
	FilePath     string
	ThumbnailURL string
}

// Result is the outcome of a successful extraction.
type Result struct {
	Items []Item
}

// Extractor is the extraction engine consumed by the orchestrator. Extract
// fetches the remote media described by url using one attempt configuration
// and produces local files, invoking onProgress as data arrives. A nil
// onProgress is allowed.
type Extractor interface {
	Extract(ctx context.Context, cfg model.AttemptConfig, url string, onProgress func(Progress)) (*Result, error)
}
