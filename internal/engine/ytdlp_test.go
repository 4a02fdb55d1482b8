package engine

import "testing"

func TestAudioPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/downloads/Song_Title.webm", "/downloads/Song_Title.mp3"},
		{"/downloads/Song_Title.m4a", "/downloads/Song_Title.mp3"},
		{"/downloads/Song_Title.mp4", "/downloads/Song_Title.mp3"},
		{"/downloads/Song_Title.mp3", "/downloads/Song_Title.mp3"},
		{"/downloads/no_extension", "/downloads/no_extension"},
	}

	for _, tt := range tests {
		if got := audioPath(tt.in, "mp3"); got != tt.want {
			t.Errorf("audioPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
