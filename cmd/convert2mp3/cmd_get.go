package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

var getCmd = &cobra.Command{
	Use:   "get [url]",
	Short: "Download a single URL from the terminal",
	Long:  "Download one video or playlist synchronously, printing progress to stdout. Prompts for the URL when none is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGet,
}

var (
	getArtist  string
	getAlbum   string
	getFolder  string
	getQuality int
)

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVar(&getArtist, "artist", "", "Artist tag for the downloaded files")
	getCmd.Flags().StringVar(&getAlbum, "album", "", "Album tag for the downloaded files")
	getCmd.Flags().StringVar(&getFolder, "dir", "", "Destination directory (defaults to the configured download directory)")
	getCmd.Flags().IntVar(&getQuality, "quality", 0, "MP3 bitrate in kbps: 128, 192 or 320")
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	url := ""
	if len(args) > 0 {
		url = strings.TrimSpace(args[0])
	}
	if url == "" {
		fmt.Print("Enter URL: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read url: %w", err)
		}
		url = strings.TrimSpace(line)
	}
	if url == "" {
		return fmt.Errorf("no URL given")
	}

	req := cfg.Request(url)
	req.Artist = getArtist
	req.Album = getAlbum
	if getFolder != "" {
		req.OutputDir = getFolder
	}
	if tier := model.QualityTier(getQuality); tier.IsValid() {
		req.Quality = tier
	}
	req.Normalize()

	svc := buildService()
	session, err := svc.Start(req)
	if err != nil {
		return err
	}

	// Ctrl+C requests cooperative cancellation; the worker finishes the
	// current attempt or item before stopping.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupt
		fmt.Println("\nCancelling...")
		session.Cancel()
	}()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		for _, ev := range session.Events.Drain() {
			switch ev.Kind {
			case model.EventPercent:
				fmt.Printf("\r%6.1f%%", ev.Percent)
			case model.EventStatus:
				fmt.Printf("\n%s\n", ev.Message)
			}
		}

		snap := session.Snapshot()
		if !snap.Status.IsFinished() {
			continue
		}

		fmt.Println()
		for _, f := range snap.Files {
			fmt.Println("Saved:", f)
		}
		switch snap.Status {
		case model.StatusCompleted:
			fmt.Println(snap.Message)
			return nil
		case model.StatusCancelled:
			fmt.Println("Download cancelled")
			return nil
		default:
			if snap.Error != "" {
				return fmt.Errorf("%s", snap.Error)
			}
			return fmt.Errorf("%s", snap.Message)
		}
	}
	return nil
}
