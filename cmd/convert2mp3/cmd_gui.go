package main

import (
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/convert2mp3/convert2mp3/internal/ui"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Start the desktop application",
	Long:  "Open the desktop window for downloading videos and playlists interactively",
	RunE:  runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger.Info().Str("version", version).Msg("convert2mp3 desktop starting")

	fyneApp := app.NewWithID("com.convert2mp3.app")
	window := fyneApp.NewWindow("convert2mp3")

	svc := buildService()
	ui.NewRootUI(window, svc, cfg, logger)

	window.ShowAndRun()
	return nil
}
