package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/convert2mp3/convert2mp3/internal/model"
)

// convertRequest is the /convert body sent by the extension.
type convertRequest struct {
	URL            string `json:"url"`
	Quality        string `json:"quality"`
	Artist         string `json:"artist"`
	Album          string `json:"album"`
	DownloadFolder string `json:"downloadFolder"`
}

// statusResponse is the /status/{id} payload.
type statusResponse struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
	Filename string  `json:"filename,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "convert2mp3 backend " + s.version,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid JSON body",
		})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "missing url",
		})
		return
	}

	session, err := s.svc.Start(s.downloadRequest(req))
	if err != nil {
		s.logger.Warn().Err(err).Str("url", req.URL).Msg("convert rejected")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"download_id": session.ID,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, ok := s.svc.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
		return
	}

	snap := session.Snapshot()
	resp := statusResponse{
		Status:   snap.Status.String(),
		Progress: snap.Percent,
		Message:  snap.Message,
		Error:    snap.Error,
	}
	if len(snap.Files) > 0 {
		resp.Filename = snap.Files[len(snap.Files)-1]
	}
	writeJSON(w, http.StatusOK, resp)
}

// downloadRequest maps the wire request onto the domain request, filling
// gaps from process configuration.
func (s *Server) downloadRequest(req convertRequest) model.DownloadRequest {
	out := s.cfg.Request(req.URL)
	out.Artist = req.Artist
	out.Album = req.Album

	if req.Quality != "" {
		if kbps, err := strconv.Atoi(req.Quality); err == nil {
			if tier := model.QualityTier(kbps); tier.IsValid() {
				out.Quality = tier
			}
		}
	}

	if req.DownloadFolder != "" {
		if filepath.IsAbs(req.DownloadFolder) {
			out.OutputDir = req.DownloadFolder
		} else {
			out.OutputDir = filepath.Join(s.cfg.DownloadDir, req.DownloadFolder)
		}
	}

	out.Normalize()
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
