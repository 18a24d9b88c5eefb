package catalog

// Song is one row of the song table. Pointer fields are the optional
// attributes spec'd for a Song: they are nil when the column is NULL.
type Song struct {
	ID          int64
	Path        string
	Parent      *string
	Title       string
	Album       *string
	Artist      *string
	Track       *int
	Duration    *int
	Year        *int
	Genre       *string
	CoverArt    *string // filled in by GetSong from the song's CoverArt row, never stored; nil in ListSongs/SearchSongs results
	Size        *int64
	ContentType *string
}

// CoverArt is one row of the cover_art table.
type CoverArt struct {
	ID       int64
	Shard    int
	MimeType string
	SongID   int64
}

// SongDraft is the input to InsertSong: everything needed to create a Song
// row except its id, which the store assigns.
type SongDraft struct {
	Path        string
	Parent      *string
	Title       string
	Album       *string
	Artist      *string
	Track       *int
	Duration    *int
	Year        *int
	Genre       *string
	Size        *int64
	ContentType *string
}

// Artist is a derived view: a distinct non-null song.artist value.
type Artist struct {
	Name string
}

// Album is a derived view: a distinct (album, artist) pairing.
type Album struct {
	Title  string
	Artist *string
}

// ListSongsParams controls list_songs paging and filtering.
type ListSongsParams struct {
	Limit           int
	Offset          int
	OrderByTitleAsc bool
	Filter          string
}

// ListParams controls list_artists/list_albums paging and filtering.
type ListParams struct {
	NameFilter string
	Limit      int
	Offset     int
}
