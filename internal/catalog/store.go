// Package catalog is the persistent relational store of Songs and
// CoverArts described by the system's data model: a single embedded SQLite
// database under {data_path}/udrome.sqlite.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrDuplicatePath is returned by InsertSong when a Song with the same path
// already exists. It is a distinct, non-fatal outcome, not an error to log
// and abort on.
var ErrDuplicatePath = errors.New("song path already indexed")

// ErrNotFound is returned by the Get* methods when no row matches.
var ErrNotFound = errors.New("not found")

// Store holds the single *sql.DB handle used for the catalog.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path. Writes
// are serialised by limiting the pool to a single connection, matching the
// embedded engine's own single-writer model.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertSong atomically inserts one Song, returning its assigned id. If a
// Song with the same path already exists, ErrDuplicatePath is returned
// instead of a generic error.
func (s *Store) InsertSong(ctx context.Context, draft SongDraft) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO song (path, parent, title, album, artist, track, duration, year, genre, size, content_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.Path, draft.Parent, draft.Title, draft.Album, draft.Artist,
		draft.Track, draft.Duration, draft.Year, draft.Genre, draft.Size, draft.ContentType)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicatePath
		}
		return 0, fmt.Errorf("insert song: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert song: last insert id: %w", err)
	}
	return id, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite wraps libsqlite3's error text rather than
// exposing a typed constraint-violation error, so a substring check on the
// driver's own message is the stable way to classify it.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// InsertCoverArt inserts one CoverArt row owned by songID, with a shard
// chosen uniformly at random in [0, 511], and returns its assigned id.
func (s *Store) InsertCoverArt(ctx context.Context, songID int64, mimeType string) (id int64, shard int, err error) {
	shard = rand.Intn(512)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cover_art (shard, mime_type, song) VALUES (?, ?, ?)`,
		shard, mimeType, songID)
	if err != nil {
		return 0, 0, fmt.Errorf("insert cover art: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("insert cover art: last insert id: %w", err)
	}
	return id, shard, nil
}

// GetSong loads a Song by id. If a CoverArt row exists for it, CoverArt is
// filled with that row's id as a decimal string.
func (s *Store) GetSong(ctx context.Context, id int64) (Song, error) {
	var song Song
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, parent, title, album, artist, track, duration, year, genre, size, content_type
		 FROM song WHERE id = ?`, id)
	if err := scanSong(row, &song); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, ErrNotFound
		}
		return Song{}, fmt.Errorf("get song: %w", err)
	}

	var coverID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM cover_art WHERE song = ? LIMIT 1`, id).Scan(&coverID)
	switch {
	case err == nil:
		s := fmt.Sprintf("%d", coverID)
		song.CoverArt = &s
	case errors.Is(err, sql.ErrNoRows):
		// no cover art for this song, leave nil
	default:
		return Song{}, fmt.Errorf("get song cover art: %w", err)
	}

	return song, nil
}

// GetCoverArt loads a CoverArt row by id.
func (s *Store) GetCoverArt(ctx context.Context, id int64) (CoverArt, error) {
	var c CoverArt
	row := s.db.QueryRowContext(ctx,
		`SELECT id, shard, mime_type, song FROM cover_art WHERE id = ?`, id)
	if err := row.Scan(&c.ID, &c.Shard, &c.MimeType, &c.SongID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CoverArt{}, ErrNotFound
		}
		return CoverArt{}, fmt.Errorf("get cover art: %w", err)
	}
	return c, nil
}

// SongExistsByPath reports whether a Song row already references path.
func (s *Store) SongExistsByPath(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM song WHERE path = ?)`, path).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("song exists by path: %w", err)
	}
	return exists, nil
}

// KnownPaths loads every indexed path into a set, for the indexer's
// startup known-set.
func (s *Store) KnownPaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM song`)
	if err != nil {
		return nil, fmt.Errorf("known paths: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("known paths: scan: %w", err)
		}
		known[p] = struct{}{}
	}
	return known, rows.Err()
}

// ListSongs returns a page of songs, optionally narrowed by the AND-of-
// substring-contains filter grammar described on Tokenize, applied to the
// title column.
func (s *Store) ListSongs(ctx context.Context, p ListSongsParams) ([]Song, error) {
	where, args := songFilterClause(p.Filter, "title")
	order := "id ASC"
	if p.OrderByTitleAsc {
		order = "title ASC"
	}
	query := fmt.Sprintf(
		`SELECT id, path, parent, title, album, artist, track, duration, year, genre, size, content_type
		 FROM song %s ORDER BY %s LIMIT ? OFFSET ?`, where, order)
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var out []Song
	for rows.Next() {
		var song Song
		if err := scanSong(rows, &song); err != nil {
			return nil, fmt.Errorf("list songs: scan: %w", err)
		}
		out = append(out, song)
	}
	return out, rows.Err()
}

// SearchSongs implements the search3 song filter: a row matches if title,
// album, or artist contains every token of query (case-insensitive
// substring). An empty query matches every row. Results are ordered by
// title ascending and paged by limit/offset.
func (s *Store) SearchSongs(ctx context.Context, query string, limit, offset int) ([]Song, error) {
	where, args := SongSearchClause(query, "title", "album", "artist")
	q := fmt.Sprintf(
		`SELECT id, path, parent, title, album, artist, track, duration, year, genre, size, content_type
		 FROM song %s ORDER BY title ASC LIMIT ? OFFSET ?`, where)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()

	var out []Song
	for rows.Next() {
		var song Song
		if err := scanSong(rows, &song); err != nil {
			return nil, fmt.Errorf("search songs: scan: %w", err)
		}
		out = append(out, song)
	}
	return out, rows.Err()
}

// ListArtists returns the distinct non-null artist names, ordered
// ascending, optionally AND-filtered by nameFilter's tokens.
func (s *Store) ListArtists(ctx context.Context, p ListParams) ([]Artist, error) {
	where, args := filterClauseOn(p.NameFilter, "artist")
	query := fmt.Sprintf(
		`SELECT DISTINCT artist FROM song WHERE artist IS NOT NULL %s ORDER BY artist ASC LIMIT ? OFFSET ?`,
		andPrefix(where))
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var out []Artist
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list artists: scan: %w", err)
		}
		out = append(out, Artist{Name: name})
	}
	return out, rows.Err()
}

// ListAlbums returns the distinct (album, artist) pairings, ordered by
// album title ascending, optionally AND-filtered on the album column.
func (s *Store) ListAlbums(ctx context.Context, p ListParams) ([]Album, error) {
	where, args := filterClauseOn(p.NameFilter, "album")
	query := fmt.Sprintf(
		`SELECT DISTINCT album, artist FROM song WHERE album IS NOT NULL %s ORDER BY album ASC LIMIT ? OFFSET ?`,
		andPrefix(where))
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var out []Album
	for rows.Next() {
		var title string
		var artist sql.NullString
		if err := rows.Scan(&title, &artist); err != nil {
			return nil, fmt.Errorf("list albums: scan: %w", err)
		}
		a := Album{Title: title}
		if artist.Valid {
			a.Artist = &artist.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CoverArtIDsForSongs resolves the cover_art id for each of the given song
// ids in one query, matching the Query Engine's "batched as one query
// across the page, not per row" requirement.
func (s *Store) CoverArtIDsForSongs(ctx context.Context, songIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(songIDs))
	if len(songIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(songIDs))
	args := make([]any, len(songIDs))
	for i, id := range songIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, song FROM cover_art WHERE song IN (%s)`, strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("cover art ids for songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var coverID, songID int64
		if err := rows.Scan(&coverID, &songID); err != nil {
			return nil, fmt.Errorf("cover art ids for songs: scan: %w", err)
		}
		out[songID] = coverID
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner, song *Song) error {
	var parent, album, artist, genre, contentType sql.NullString
	var track, duration, year sql.NullInt64
	var size sql.NullInt64
	if err := row.Scan(&song.ID, &song.Path, &parent, &song.Title, &album, &artist,
		&track, &duration, &year, &genre, &size, &contentType); err != nil {
		return err
	}
	if parent.Valid {
		song.Parent = &parent.String
	}
	if album.Valid {
		song.Album = &album.String
	}
	if artist.Valid {
		song.Artist = &artist.String
	}
	if genre.Valid {
		song.Genre = &genre.String
	}
	if contentType.Valid {
		song.ContentType = &contentType.String
	}
	if track.Valid {
		t := int(track.Int64)
		song.Track = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		song.Duration = &d
	}
	if year.Valid {
		y := int(year.Int64)
		song.Year = &y
	}
	if size.Valid {
		song.Size = &size.Int64
	}
	return nil
}
