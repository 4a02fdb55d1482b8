package download

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/convert2mp3/convert2mp3/internal/engine"
	"github.com/convert2mp3/convert2mp3/internal/model"
	"github.com/convert2mp3/convert2mp3/internal/tags"
)

// TagWriter finalizes one produced file with metadata and cover art.
type TagWriter interface {
	Apply(path string, set tags.Set) error
}

// Outcome is the single terminal result of one orchestration run. Attempts
// records one AttemptOutcome per plan entry that was actually tried, in
// order.
type Outcome struct {
	Status   model.SessionStatus
	Files    []string
	Message  string
	Err      error
	Attempts []model.AttemptOutcome
}

// Orchestrator executes a strategy plan against the extraction engine,
// one attempt at a time, and finalizes produced files with tags.
type Orchestrator struct {
	engine engine.Extractor
	tags   TagWriter
	logger zerolog.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(ex engine.Extractor, tw TagWriter, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		engine: ex,
		tags:   tw,
		logger: logger,
	}
}

// Run tries plan entries strictly in order until one succeeds, relaying
// progress through onEvent. Cancellation is cooperative: isCancelled is
// checked before each attempt and before each item of a playlist result;
// an attempt that already started runs to its own completion or failure.
// Per-attempt errors never escape the loop; only the terminal outcome is
// returned.
func (o *Orchestrator) Run(req model.DownloadRequest, plan model.StrategyPlan, onEvent func(model.ProgressEvent), isCancelled func() bool) Outcome {
	emit := func(ev model.ProgressEvent) {
		if onEvent != nil {
			onEvent(ev)
		}
	}

	attempts := make([]model.AttemptOutcome, 0, len(plan))

	for i, cfg := range plan {
		if isCancelled() {
			return o.cancelled(emit, attempts, nil)
		}

		emit(model.StatusEvent(fmt.Sprintf("Trying download method %d of %d...", i+1, len(plan))))
		o.logger.Info().
			Int("attempt", i+1).
			Int("total", len(plan)).
			Str("client", cfg.Client).
			Str("format", cfg.FormatSelector).
			Msg("starting attempt")

		result, err := o.engine.Extract(context.Background(), cfg, req.URL, func(p engine.Progress) {
			o.relayProgress(emit, p)
		})
		if err != nil {
			category := Classify(err)
			state := model.AttemptRetryable
			if i == len(plan)-1 {
				state = model.AttemptFatal
			}
			attempts = append(attempts, model.AttemptOutcome{
				State:    state,
				Category: category,
				Err:      err,
			})
			o.logger.Warn().
				Err(err).
				Int("attempt", i+1).
				Str("state", string(state)).
				Str("category", string(category)).
				Msg("attempt failed")
			continue
		}

		emit(model.StatusEvent("Processing audio..."))
		files, cancelledMidway := o.finalize(emit, req, result, isCancelled)
		success := model.AttemptOutcome{State: model.AttemptSuccess}
		if len(files) > 0 {
			success.FilePath = files[0]
		}
		attempts = append(attempts, success)
		if cancelledMidway {
			return o.cancelled(emit, attempts, files)
		}

		emit(model.PercentEvent(100))
		message := fmt.Sprintf("Download complete: %d file(s) saved with metadata and cover art.", len(files))
		emit(model.StatusEvent(message))
		return Outcome{Status: model.StatusCompleted, Files: files, Message: message, Attempts: attempts}
	}

	lastCategory := model.CategoryUnknown
	var lastErr error
	if n := len(attempts); n > 0 {
		lastCategory = attempts[n-1].Category
		lastErr = attempts[n-1].Err
	}
	message := ExhaustedMessage(len(plan), lastCategory)
	emit(model.StatusEvent(message))
	return Outcome{Status: model.StatusError, Message: message, Err: lastErr, Attempts: attempts}
}

// finalize tags every produced item in turn. Already-tagged items are kept
// when cancellation interrupts the loop. Tag failures are logged and do not
// fail the download.
func (o *Orchestrator) finalize(emit func(model.ProgressEvent), req model.DownloadRequest, result *engine.Result, isCancelled func() bool) (files []string, cancelledMidway bool) {
	for _, item := range result.Items {
		if isCancelled() {
			return files, true
		}

		title := item.Title
		if title == "" {
			title = model.DefaultTitle
		}
		set := tags.Set{
			Artist:       req.Artist,
			Album:        req.Album,
			Title:        title,
			ThumbnailURL: item.ThumbnailURL,
		}
		if err := o.tags.Apply(item.FilePath, set); err != nil {
			o.logger.Warn().Err(err).Str("file", item.FilePath).Msg("tag writing failed")
		}
		files = append(files, item.FilePath)
	}
	return files, false
}

// relayProgress forwards engine progress. Percentages are only emitted when
// the engine knows the total size; a bare byte count becomes a status line
// instead of a fabricated percentage.
func (o *Orchestrator) relayProgress(emit func(model.ProgressEvent), p engine.Progress) {
	if p.TotalBytes > 0 {
		percent := float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
		emit(model.PercentEvent(percent))
		return
	}
	if p.DownloadedBytes > 0 {
		emit(model.StatusEvent(fmt.Sprintf("Downloaded %.1f MB...", float64(p.DownloadedBytes)/1024/1024)))
	}
}

func (o *Orchestrator) cancelled(emit func(model.ProgressEvent), attempts []model.AttemptOutcome, files []string) Outcome {
	message := "Download cancelled."
	emit(model.StatusEvent(message))
	o.logger.Info().Msg("session cancelled")
	return Outcome{Status: model.StatusCancelled, Files: files, Message: message, Attempts: attempts}
}
