package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/spookyvision/udrome/internal/query"
	"github.com/spookyvision/udrome/internal/subsonic"
)

type handlers struct {
	engine *query.Engine
}

func writeEnvelope(w http.ResponseWriter, resp subsonic.Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(subsonic.Wrap(resp))
}

// ping handles ping.view: an empty OK envelope.
func (h *handlers) ping(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, subsonic.OK())
}

// search3 handles search3.view.
func (h *handlers) search3(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := query.Search3Params{
		Query:         q.Get("query"),
		ArtistCount:   atoi(q.Get("artistCount")),
		ArtistOffset:  atoi(q.Get("artistOffset")),
		AlbumCount:    atoi(q.Get("albumCount")),
		AlbumOffset:   atoi(q.Get("albumOffset")),
		SongCount:     atoi(q.Get("songCount")),
		SongOffset:    atoi(q.Get("songOffset")),
		MusicFolderID: q.Get("musicFolderId"),
	}

	result, err := h.engine.Search3(r.Context(), params)
	if err != nil {
		slog.Error("search3 failed", "err", err)
		writeEnvelope(w, subsonic.Failed(0, "internal error"))
		return
	}

	resp := subsonic.OK()
	resp.SearchResult3 = &result
	writeEnvelope(w, resp)
}

// getSong handles getSong.view.
func (h *handlers) getSong(w http.ResponseWriter, r *http.Request) {
	child, err := h.engine.GetSong(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(subsonic.Wrap(subsonic.Failed(70, "song not found")))
			return
		}
		slog.Error("getSong failed", "err", err)
		writeEnvelope(w, subsonic.Failed(0, "internal error"))
		return
	}

	resp := subsonic.OK()
	resp.Song = &child
	writeEnvelope(w, resp)
}

// getArtists handles getArtists.view.
func (h *handlers) getArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.engine.GetArtists(r.Context())
	if err != nil {
		slog.Error("getArtists failed", "err", err)
		writeEnvelope(w, subsonic.Failed(0, "internal error"))
		return
	}
	resp := subsonic.OK()
	resp.Artists = &artists
	writeEnvelope(w, resp)
}

// getAlbumList2 handles getAlbumList2.view.
func (h *handlers) getAlbumList2(w http.ResponseWriter, r *http.Request) {
	albums, err := h.engine.GetAlbumList2(r.Context())
	if err != nil {
		slog.Error("getAlbumList2 failed", "err", err)
		writeEnvelope(w, subsonic.Failed(0, "internal error"))
		return
	}
	resp := subsonic.OK()
	resp.AlbumList2 = &albums
	writeEnvelope(w, resp)
}

// getPlaylists handles getPlaylists.view: a static example stub, per
// spec §6 (no playlist persistence in scope).
func (h *handlers) getPlaylists(w http.ResponseWriter, r *http.Request) {
	resp := subsonic.OK()
	resp.Playlists = &subsonic.Playlists{}
	writeEnvelope(w, resp)
}

// getMusicFolders handles getMusicFolders.view: a fixed single folder.
func (h *handlers) getMusicFolders(w http.ResponseWriter, r *http.Request) {
	resp := subsonic.OK()
	resp.MusicFolders = &subsonic.MusicFolders{
		MusicFolder: []subsonic.MusicFolder{{ID: 1, Name: "music"}},
	}
	writeEnvelope(w, resp)
}

// scrobble handles scrobble.view: accepted and ignored, per spec's
// non-goal on playlist/listen history persistence.
func (h *handlers) scrobble(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, subsonic.OK())
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
