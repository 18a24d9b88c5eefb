// Package query is the Query Engine: it translates Subsonic search/browse
// requests into Catalog Store queries and joins in cover-art ids.
package query

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spookyvision/udrome/internal/catalog"
	"github.com/spookyvision/udrome/internal/subsonic"
)

// Engine executes Subsonic-shaped queries against the catalog.
type Engine struct {
	store *catalog.Store
}

// New returns an Engine backed by store.
func New(store *catalog.Store) *Engine {
	return &Engine{store: store}
}

// Search3Params mirrors the search3.view query parameters. MusicFolderID
// is accepted and parsed but never applied to any filter, per spec §9.
type Search3Params struct {
	Query         string
	ArtistCount   int
	ArtistOffset  int
	AlbumCount    int
	AlbumOffset   int
	SongCount     int
	SongOffset    int
	MusicFolderID string
}

const defaultPageSize = 20

// Search3 implements the search3 operation: artists/albums AND-filtered on
// their own column, songs filtered across title/album/artist, each paged
// independently.
func (e *Engine) Search3(ctx context.Context, p Search3Params) (subsonic.SearchResult3, error) {
	artistCount := orDefault(p.ArtistCount, defaultPageSize)
	albumCount := orDefault(p.AlbumCount, defaultPageSize)
	songCount := orDefault(p.SongCount, defaultPageSize)

	artists, err := e.store.ListArtists(ctx, catalog.ListParams{
		NameFilter: p.Query, Limit: artistCount, Offset: p.ArtistOffset,
	})
	if err != nil {
		return subsonic.SearchResult3{}, fmt.Errorf("search3 artists: %w", err)
	}

	albums, err := e.store.ListAlbums(ctx, catalog.ListParams{
		NameFilter: p.Query, Limit: albumCount, Offset: p.AlbumOffset,
	})
	if err != nil {
		return subsonic.SearchResult3{}, fmt.Errorf("search3 albums: %w", err)
	}

	songs, err := e.store.SearchSongs(ctx, p.Query, songCount, p.SongOffset)
	if err != nil {
		return subsonic.SearchResult3{}, fmt.Errorf("search3 songs: %w", err)
	}

	children, err := e.toChildren(ctx, songs)
	if err != nil {
		return subsonic.SearchResult3{}, err
	}

	return subsonic.SearchResult3{
		Artist: toArtistID3s(artists),
		Album:  toAlbumID3s(albums),
		Song:   children,
	}, nil
}

// GetArtists implements getArtists.view: the same list projection as
// search3's artist branch, with an empty filter, returned as a single
// anonymous index per spec §6.
func (e *Engine) GetArtists(ctx context.Context) (subsonic.ArtistsID3, error) {
	artists, err := e.store.ListArtists(ctx, catalog.ListParams{Limit: 1 << 30})
	if err != nil {
		return subsonic.ArtistsID3{}, fmt.Errorf("get artists: %w", err)
	}
	return subsonic.ArtistsID3{
		Index: []subsonic.IndexID3{{Name: "", Artists: toArtistID3s(artists)}},
	}, nil
}

// GetAlbumList2 implements getAlbumList2.view: the album list projection
// with an empty filter.
func (e *Engine) GetAlbumList2(ctx context.Context) (subsonic.AlbumList2, error) {
	albums, err := e.store.ListAlbums(ctx, catalog.ListParams{Limit: 1 << 30})
	if err != nil {
		return subsonic.AlbumList2{}, fmt.Errorf("get album list2: %w", err)
	}
	return subsonic.AlbumList2{Album: toAlbumID3s(albums)}, nil
}

// ErrNotFound is returned when a numeric id parameter is malformed or
// refers to no catalog row — callers must turn this into a 404, never a
// 500, per spec §4.D.
var ErrNotFound = catalog.ErrNotFound

// GetSong implements getSong.view. Non-numeric ids are rejected as
// ErrNotFound rather than a parse error, matching "the engine... rejects
// non-numeric ids with a not-found outcome (never an error-500)."
func (e *Engine) GetSong(ctx context.Context, idStr string) (subsonic.Child, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return subsonic.Child{}, ErrNotFound
	}
	song, err := e.store.GetSong(ctx, id)
	if err != nil {
		return subsonic.Child{}, err
	}
	return toChild(song), nil
}

// toChildren converts a page of Songs to Children, resolving cover-art ids
// with a single batched lookup across the whole page rather than one
// query per row, per spec §4.D.
func (e *Engine) toChildren(ctx context.Context, songs []catalog.Song) ([]subsonic.Child, error) {
	ids := make([]int64, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	coverIDs, err := e.store.CoverArtIDsForSongs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cover art ids: %w", err)
	}

	out := make([]subsonic.Child, len(songs))
	for i, s := range songs {
		c := toChild(s)
		if coverID, ok := coverIDs[s.ID]; ok {
			c.CoverArt = strconv.FormatInt(coverID, 10)
		}
		out[i] = c
	}
	return out, nil
}

func toChild(s catalog.Song) subsonic.Child {
	c := subsonic.Child{
		ID:    strconv.FormatInt(s.ID, 10),
		Title: s.Title,
	}
	if s.Parent != nil {
		c.Parent = *s.Parent
	}
	if s.Album != nil {
		c.Album = *s.Album
	}
	if s.Artist != nil {
		c.Artist = *s.Artist
	}
	if s.Track != nil {
		c.Track = *s.Track
	}
	if s.Genre != nil {
		c.Genre = *s.Genre
	}
	if s.CoverArt != nil {
		c.CoverArt = *s.CoverArt
	}
	if s.Size != nil {
		c.Size = *s.Size
	}
	if s.ContentType != nil {
		c.ContentType = *s.ContentType
	}
	if s.Duration != nil {
		c.Duration = *s.Duration
	}
	if s.Year != nil {
		c.Year = *s.Year
	}
	return c
}

func toArtistID3s(artists []catalog.Artist) []subsonic.ArtistID3 {
	out := make([]subsonic.ArtistID3, len(artists))
	for i, a := range artists {
		// Album identity collides for same-titled albums by different
		// artists; artist identity is simply the name string, preserved
		// as the observable id per spec §9.
		out[i] = subsonic.ArtistID3{ID: a.Name, Name: a.Name}
	}
	return out
}

func toAlbumID3s(albums []catalog.Album) []subsonic.AlbumID3 {
	out := make([]subsonic.AlbumID3, len(albums))
	for i, a := range albums {
		id3 := subsonic.AlbumID3{ID: a.Title, Name: a.Title}
		if a.Artist != nil {
			id3.Artist = *a.Artist
		}
		out[i] = id3
	}
	return out
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
