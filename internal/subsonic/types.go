package subsonic

// Child is Subsonic's song/media-entity representation, field-named after
// the shape the example pack's melodee-next search handler uses.
type Child struct {
	ID          string `json:"id"`
	Parent      string `json:"parent,omitempty"`
	Title       string `json:"title"`
	Album       string `json:"album,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Track       int    `json:"track,omitempty"`
	Genre       string `json:"genre,omitempty"`
	CoverArt    string `json:"coverArt,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Suffix      string `json:"suffix,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	Year        int    `json:"year,omitempty"`
	IsDir       bool   `json:"isDir"`
}

// ArtistID3 is one entry in an ArtistsID3 index.
type ArtistID3 struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IndexID3 is one alphabetical bucket of an ArtistsID3 listing. This
// implementation always emits a single anonymous index, per spec §6.
type IndexID3 struct {
	Name    string      `json:"name"`
	Artists []ArtistID3 `json:"artist"`
}

// ArtistsID3 is the response body for getArtists.view.
type ArtistsID3 struct {
	Index []IndexID3 `json:"index"`
}

// AlbumID3 is one album entry in an AlbumList2 response.
type AlbumID3 struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist,omitempty"`
}

// AlbumList2 is the response body for getAlbumList2.view.
type AlbumList2 struct {
	Album []AlbumID3 `json:"album"`
}

// SearchResult3 is the response body for search3.view.
type SearchResult3 struct {
	Artist []ArtistID3 `json:"artist,omitempty"`
	Album  []AlbumID3  `json:"album,omitempty"`
	Song   []Child     `json:"song,omitempty"`
}

// Playlist is a static stub entry for getPlaylists.view, which spec §6
// documents as a fixed example response (no playlist persistence in
// scope).
type Playlist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Public    bool   `json:"public"`
	SongCount int    `json:"songCount"`
}

// Playlists wraps the stub Playlist list.
type Playlists struct {
	Playlist []Playlist `json:"playlist"`
}

// MusicFolder is the single fixed music folder getMusicFolders.view
// returns, per spec §6.
type MusicFolder struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MusicFolders wraps the fixed single-folder list.
type MusicFolders struct {
	MusicFolder []MusicFolder `json:"musicFolder"`
}
