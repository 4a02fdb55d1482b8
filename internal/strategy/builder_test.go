package strategy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

func baseRequest() model.DownloadRequest {
	req := model.DownloadRequest{
		URL:       "https://youtu.be/abc123",
		OutputDir: "/tmp/downloads",
	}
	req.Normalize()
	return req
}

func TestBuildPlanNeverEmpty(t *testing.T) {
	formats := []model.FormatPref{model.FormatAuto, model.FormatDirect, model.FormatCompatible}
	avoid := []bool{true, false}

	for _, format := range formats {
		for _, avoidHLS := range avoid {
			req := baseRequest()
			req.Format = format
			req.AvoidHLS = avoidHLS

			plan, err := BuildPlan(req, DefaultClients)
			if err != nil {
				t.Fatalf("BuildPlan(%s, avoid=%v): %v", format, avoidHLS, err)
			}
			if len(plan) < 2 {
				t.Errorf("BuildPlan(%s, avoid=%v) returned %d attempts, want >= 2", format, avoidHLS, len(plan))
			}
		}
	}
}

func TestBuildPlanSingleClientStillHasFallbacks(t *testing.T) {
	req := baseRequest()
	req.Format = model.FormatDirect

	plan, err := BuildPlan(req, []string{"android"})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan) < 2 {
		t.Errorf("Expected at least 2 attempts for a single client, got %d", len(plan))
	}
}

func TestBuildPlanDirectOrdering(t *testing.T) {
	req := baseRequest()
	req.Format = model.FormatDirect

	plan, err := BuildPlan(req, DefaultClients)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	// Restrictive-protocol-avoiding attempts must precede the fallbacks.
	if !strings.Contains(plan[0].FormatSelector, "protocol!*=m3u8") {
		t.Errorf("First attempt should exclude HLS, got %q", plan[0].FormatSelector)
	}

	last := plan[len(plan)-1]
	if last.FormatSelector != selectorCappedVideo {
		t.Errorf("Last attempt should be the capped video fallback, got %q", last.FormatSelector)
	}

	// Direct attempts: two per client for the first two clients.
	for i := 0; i < 4; i++ {
		if strings.Contains(plan[i].FormatSelector, "m3u8") == false {
			t.Errorf("Attempt %d should carry a non-HLS selector, got %q", i, plan[i].FormatSelector)
		}
	}
	if plan[0].Client != "android" || plan[2].Client != "ios" {
		t.Errorf("Direct attempts should use the first two clients, got %q then %q", plan[0].Client, plan[2].Client)
	}
}

func TestBuildPlanAutoAvoidHLSMatchesDirect(t *testing.T) {
	direct := baseRequest()
	direct.Format = model.FormatDirect

	auto := baseRequest()
	auto.Format = model.FormatAuto
	auto.AvoidHLS = true

	planDirect, err := BuildPlan(direct, DefaultClients)
	if err != nil {
		t.Fatalf("BuildPlan direct: %v", err)
	}
	planAuto, err := BuildPlan(auto, DefaultClients)
	if err != nil {
		t.Fatalf("BuildPlan auto: %v", err)
	}

	if len(planDirect) != len(planAuto) {
		t.Fatalf("Expected identical plan lengths, got %d and %d", len(planDirect), len(planAuto))
	}
	for i := range planDirect {
		if planDirect[i].FormatSelector != planAuto[i].FormatSelector {
			t.Errorf("Attempt %d selectors differ: %q vs %q", i, planDirect[i].FormatSelector, planAuto[i].FormatSelector)
		}
	}
}

func TestBuildPlanCompatibleOnePerClient(t *testing.T) {
	req := baseRequest()
	req.Format = model.FormatCompatible

	plan, err := BuildPlan(req, DefaultClients)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	// One unrestricted attempt per client, then two fallbacks per client.
	want := len(DefaultClients) * 3
	if len(plan) != want {
		t.Errorf("Expected %d attempts, got %d", want, len(plan))
	}
	for i, client := range DefaultClients {
		if plan[i].Client != client {
			t.Errorf("Attempt %d should use client %q, got %q", i, client, plan[i].Client)
		}
		if plan[i].FormatSelector != selectorUnrestricted {
			t.Errorf("Attempt %d should be unrestricted, got %q", i, plan[i].FormatSelector)
		}
	}
}

func TestBuildPlanEmptyClientsFails(t *testing.T) {
	req := baseRequest()
	if _, err := BuildPlan(req, nil); err != ErrNoClients {
		t.Errorf("Expected ErrNoClients, got %v", err)
	}
}

func TestBuildPlanMissingCookieFileFails(t *testing.T) {
	req := baseRequest()
	req.CookieMode = model.CookieFile
	req.CookieFile = filepath.Join(t.TempDir(), "missing-cookies.txt")

	if _, err := BuildPlan(req, DefaultClients); err == nil {
		t.Error("Expected error for missing cookie file")
	}
}

func TestBuildPlanReadableCookieFileAttached(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(cookieFile, []byte("# Netscape HTTP Cookie File\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	req := baseRequest()
	req.CookieMode = model.CookieFile
	req.CookieFile = cookieFile

	plan, err := BuildPlan(req, DefaultClients)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	for i, cfg := range plan {
		if cfg.CookieMode != model.CookieFile || cfg.CookieFile != cookieFile {
			t.Errorf("Attempt %d missing cookie payload", i)
		}
	}
}

func TestBuildPlanBrowserCookiesOnEveryAttempt(t *testing.T) {
	req := baseRequest()
	req.CookieMode = model.CookieBrowser
	req.CookieBrowser = "firefox"

	plan, err := BuildPlan(req, DefaultClients)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	for i, cfg := range plan {
		if cfg.CookieBrowser != "firefox" {
			t.Errorf("Attempt %d missing browser cookie reference", i)
		}
	}
}

func TestPostArgsBySpeedProfile(t *testing.T) {
	tests := []struct {
		speed  model.SpeedProfile
		preset string
	}{
		{model.SpeedFast, "ultrafast"},
		{model.SpeedBalanced, "medium"},
		{model.SpeedQuality, "slow"},
	}

	for _, tt := range tests {
		req := baseRequest()
		req.Speed = tt.speed

		plan, err := BuildPlan(req, DefaultClients)
		if err != nil {
			t.Fatalf("BuildPlan: %v", err)
		}
		joined := strings.Join(plan[0].PostArgs, " ")
		if !strings.Contains(joined, tt.preset) {
			t.Errorf("Speed %q: expected preset %q in %q", tt.speed, tt.preset, joined)
		}
	}
}

func TestBuildPlanCarriesQuality(t *testing.T) {
	req := baseRequest()
	req.Quality = model.Quality320

	plan, err := BuildPlan(req, DefaultClients)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	for i, cfg := range plan {
		if cfg.Bitrate != 320 || cfg.Codec != "mp3" {
			t.Errorf("Attempt %d: expected mp3@320, got %s@%d", i, cfg.Codec, cfg.Bitrate)
		}
	}
}
