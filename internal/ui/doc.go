package ui

// Package ui contains the Fyne-based desktop shell. It wires form input to
// the download service, previews playlists before a run, and renders session
// progress by draining the event queue on a fixed tick.
