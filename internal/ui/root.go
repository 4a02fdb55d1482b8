package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/convert2mp3/convert2mp3/internal/config"
	"github.com/convert2mp3/convert2mp3/internal/download"
	"github.com/convert2mp3/convert2mp3/internal/model"
	"github.com/convert2mp3/convert2mp3/internal/platform"
)

// UI constants
const (
	RootWindowTitle     = "convert2mp3"
	RootUIPollInterval  = 100 * time.Millisecond
	RootWindowWidth     = 560
	RootWindowHeight    = 420
	RootPreviewMaxLines = 8
)

// RootUI is the main desktop window. It submits requests to the download
// service and renders the active session by draining its event queue on a
// fixed tick.
type RootUI struct {
	window fyne.Window
	svc    *download.Service
	parser *platform.PlaylistParser
	cfg    *config.Config
	logger zerolog.Logger

	urlEntry    *widget.Entry
	artistEntry *widget.Entry
	albumEntry  *widget.Entry
	folderEntry *widget.Entry
	qualityPick *widget.Select
	speedPick   *widget.Select

	downloadBtn *widget.Button
	cancelBtn   *widget.Button
	clearBtn    *widget.Button

	progressBar *widget.ProgressBar
	statusLabel *widget.Label
	resultLabel *widget.Label

	sessionID string
	stopPoll  chan struct{}
}

// NewRootUI creates and lays out the main window.
func NewRootUI(window fyne.Window, svc *download.Service, cfg *config.Config, logger zerolog.Logger) *RootUI {
	ui := &RootUI{
		window: window,
		svc:    svc,
		parser: platform.NewPlaylistParser(),
		cfg:    cfg,
		logger: logger,
	}

	window.SetTitle(RootWindowTitle)
	window.Resize(fyne.NewSize(RootWindowWidth, RootWindowHeight))

	ui.setupUI()
	return ui
}

func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("YouTube video or playlist URL")
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.artistEntry = widget.NewEntry()
	ui.artistEntry.SetPlaceHolder("Artist (optional)")

	ui.albumEntry = widget.NewEntry()
	ui.albumEntry.SetPlaceHolder("Album (optional)")

	ui.folderEntry = widget.NewEntry()
	ui.folderEntry.SetText(ui.cfg.DownloadDir)
	browseBtn := widget.NewButton("Browse...", ui.onBrowseFolder)

	ui.qualityPick = widget.NewSelect([]string{"128", "192", "320"}, nil)
	ui.qualityPick.SetSelected(strconv.Itoa(int(ui.cfg.Quality)))

	ui.speedPick = widget.NewSelect([]string{
		string(model.SpeedFast),
		string(model.SpeedBalanced),
		string(model.SpeedQuality),
	}, nil)
	ui.speedPick.SetSelected(string(ui.cfg.Speed))

	ui.downloadBtn = widget.NewButton("Download", ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.cancelBtn = widget.NewButton("Cancel", ui.onCancelClick)
	ui.cancelBtn.Disable()
	ui.clearBtn = widget.NewButton("Clear", ui.onClearClick)

	ui.progressBar = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel("Ready")
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis
	ui.resultLabel = widget.NewLabel("")
	ui.resultLabel.Wrapping = fyne.TextWrapWord

	form := container.NewVBox(
		widget.NewLabel("URL"),
		ui.urlEntry,
		container.NewGridWithColumns(2,
			container.NewVBox(widget.NewLabel("Artist"), ui.artistEntry),
			container.NewVBox(widget.NewLabel("Album"), ui.albumEntry),
		),
		widget.NewLabel("Save to"),
		container.NewBorder(nil, nil, nil, browseBtn, ui.folderEntry),
		container.NewGridWithColumns(2,
			container.NewVBox(widget.NewLabel("Bitrate (kbps)"), ui.qualityPick),
			container.NewVBox(widget.NewLabel("Conversion speed"), ui.speedPick),
		),
	)

	buttons := container.NewHBox(ui.downloadBtn, ui.cancelBtn, ui.clearBtn)

	content := container.NewVBox(
		form,
		buttons,
		ui.progressBar,
		ui.statusLabel,
		ui.resultLabel,
	)

	ui.window.SetContent(container.NewPadded(content))
}

// onBrowseFolder opens the native folder picker and stores the choice.
func (ui *RootUI) onBrowseFolder() {
	dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
		if err != nil || list == nil {
			return
		}
		ui.folderEntry.SetText(list.Path())
	}, ui.window)
}

// onDownloadClick validates input, starts a session, and begins polling.
func (ui *RootUI) onDownloadClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.statusLabel.SetText("Please enter a URL")
		return
	}

	req := ui.buildRequest(urlText)

	if platform.IsPlaylistURL(urlText) {
		ui.previewPlaylist(urlText)
	}

	session, err := ui.svc.Start(req)
	if err != nil {
		ui.logger.Warn().Err(err).Str("url", urlText).Msg("download rejected")
		ui.statusLabel.SetText("Error: " + err.Error())
		return
	}

	ui.logger.Info().Str("session", session.ID).Msg("download started from UI")

	ui.sessionID = session.ID
	ui.progressBar.SetValue(0)
	ui.resultLabel.SetText("")
	ui.statusLabel.SetText("Starting download...")
	ui.downloadBtn.Disable()
	ui.clearBtn.Disable()
	ui.cancelBtn.Enable()

	ui.stopPoll = make(chan struct{})
	go ui.pollSession(session, ui.stopPoll)
}

// buildRequest maps the form fields onto a download request, falling back
// to process configuration for everything the form does not expose.
func (ui *RootUI) buildRequest(url string) model.DownloadRequest {
	req := ui.cfg.Request(url)
	req.Artist = strings.TrimSpace(ui.artistEntry.Text)
	req.Album = strings.TrimSpace(ui.albumEntry.Text)

	if folder := strings.TrimSpace(ui.folderEntry.Text); folder != "" {
		req.OutputDir = folder
	}
	if kbps, err := strconv.Atoi(ui.qualityPick.Selected); err == nil {
		if tier := model.QualityTier(kbps); tier.IsValid() {
			req.Quality = tier
		}
	}
	if ui.speedPick.Selected != "" {
		req.Speed = model.SpeedProfile(ui.speedPick.Selected)
	}

	req.Normalize()
	return req
}

// previewPlaylist fetches playlist metadata in the background and shows
// what the URL will pull. The download proceeds regardless.
func (ui *RootUI) previewPlaylist(url string) {
	go func() {
		preview, err := ui.parser.Preview(context.Background(), url)
		if err != nil {
			ui.logger.Warn().Err(err).Msg("playlist preview failed")
			return
		}

		lines := make([]string, 0, RootPreviewMaxLines+1)
		lines = append(lines, fmt.Sprintf("Playlist: %s (%d videos)", preview.Title, preview.Count()))
		for i, v := range preview.Videos {
			if i >= RootPreviewMaxLines {
				lines = append(lines, fmt.Sprintf("... and %d more", preview.Count()-RootPreviewMaxLines))
				break
			}
			lines = append(lines, "  "+v.Title)
		}

		fyne.Do(func() {
			ui.resultLabel.SetText(strings.Join(lines, "\n"))
		})
	}()
}

// pollSession drains the session event queue on a fixed tick and pushes
// updates to the widgets until the session reaches a terminal state.
func (ui *RootUI) pollSession(session *download.Session, stop chan struct{}) {
	ticker := time.NewTicker(RootUIPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		events := session.Events.Drain()
		snap := session.Snapshot()

		fyne.Do(func() {
			for _, ev := range events {
				switch ev.Kind {
				case model.EventPercent:
					ui.progressBar.SetValue(ev.Percent / 100)
				case model.EventStatus:
					ui.statusLabel.SetText(ev.Message)
				}
			}
			if snap.Status.IsFinished() {
				ui.renderFinished(snap)
			}
		})

		if snap.Status.IsFinished() {
			return
		}
	}
}

// renderFinished applies a terminal snapshot to the widgets.
func (ui *RootUI) renderFinished(snap download.Snapshot) {
	ui.downloadBtn.Enable()
	ui.clearBtn.Enable()
	ui.cancelBtn.Disable()
	ui.statusLabel.SetText(snap.Message)

	switch snap.Status {
	case model.StatusCompleted:
		ui.progressBar.SetValue(1)
		if len(snap.Files) > 0 {
			ui.resultLabel.SetText("Saved:\n" + strings.Join(snap.Files, "\n"))
		}
		fyne.CurrentApp().SendNotification(&fyne.Notification{
			Title:   "Download completed",
			Content: snap.Message,
		})
	case model.StatusCancelled:
		if len(snap.Files) > 0 {
			ui.resultLabel.SetText("Kept before cancel:\n" + strings.Join(snap.Files, "\n"))
		}
	case model.StatusError:
		if snap.Error != "" {
			ui.resultLabel.SetText(snap.Error)
		}
	}
}

// onCancelClick requests cooperative cancellation of the active session.
func (ui *RootUI) onCancelClick() {
	if ui.sessionID == "" {
		return
	}
	if err := ui.svc.Cancel(ui.sessionID); err != nil {
		ui.logger.Warn().Err(err).Str("session", ui.sessionID).Msg("cancel failed")
		return
	}
	ui.statusLabel.SetText("Cancelling...")
}

// onClearClick resets the form for the next download. A running session is
// never interrupted here; Cancel is the only control that stops one.
func (ui *RootUI) onClearClick() {
	if ui.sessionID != "" {
		if session, ok := ui.svc.Get(ui.sessionID); ok && !session.Snapshot().Status.IsFinished() {
			return
		}
	}
	if ui.stopPoll != nil {
		select {
		case <-ui.stopPoll:
		default:
			close(ui.stopPoll)
		}
		ui.stopPoll = nil
	}
	ui.sessionID = ""
	ui.urlEntry.SetText("")
	ui.artistEntry.SetText("")
	ui.albumEntry.SetText("")
	ui.progressBar.SetValue(0)
	ui.statusLabel.SetText("Ready")
	ui.resultLabel.SetText("")
	ui.downloadBtn.Enable()
	ui.cancelBtn.Disable()
}
