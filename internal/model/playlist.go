package model

// PlaylistVideo is one entry of a playlist preview.
type PlaylistVideo struct {
	ID    string
	Title string
	URL   string
}

// PlaylistPreview is lightweight playlist metadata fetched before a
// download starts, used by shells to show what a playlist URL will pull.
type PlaylistPreview struct {
	ID     string
	Title  string
	Videos []PlaylistVideo
}

// Count returns the number of entries in the playlist.
func (p *PlaylistPreview) Count() int {
	return len(p.Videos)
}
