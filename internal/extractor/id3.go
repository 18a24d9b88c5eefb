package extractor

import (
	"fmt"
	"log/slog"

	"github.com/bogem/id3v2/v2"
)

// idTag wraps an opened ID3v2 tag. It satisfies Tag by reading the common
// text frames on demand.
type idTag struct {
	tag *id3v2.Tag
}

func (t idTag) Title() (string, bool)  { return textFrame(t.tag, "Title") }
func (t idTag) Artist() (string, bool) { return textFrame(t.tag, "Artist") }
func (t idTag) Album() (string, bool)  { return textFrame(t.tag, "Album") }
func (t idTag) Genre() (string, bool)  { return textFrame(t.tag, "Genre") }
func (t idTag) Track() (string, bool)  { return textFrame(t.tag, "Track number/Position in set") }

func textFrame(tag *id3v2.Tag, name string) (string, bool) {
	v := tag.GetTextFrame(tag.CommonID(name)).Text
	if v == "" {
		return "", false
	}
	return v, true
}

// Picture is one embedded album-art frame, in the shape the Indexer Pipeline
// needs to hand to the Catalog Store and blob sidecar.
type Picture struct {
	MimeType string
	Data     []byte
}

// readID3 opens path as an ID3v2 tag, returning the tagged-variant Tag, any
// embedded pictures (first-wins per spec §3 CoverArt cardinality is enforced
// by the caller, not here — all pictures are returned), and a tag-absent
// outcome distinct from other read errors.
//
// ErrNoTag is returned when the file parses but carries no ID3v2 tag at
// all — that is "non-fatal, tag = none" per spec §4.B, not an error to
// propagate.
func readID3(path string) (Tag, []Picture, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open id3: %w", err)
	}
	defer tag.Close()

	if tag.Title() == "" && tag.Artist() == "" && tag.Album() == "" && len(tag.AllFrames()) == 0 {
		return nil, nil, ErrNoTag
	}

	var pics []Picture
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			slog.Warn("unexpected attached-picture frame type", "path", path)
			continue
		}
		if len(pic.Picture) == 0 {
			continue
		}
		pics = append(pics, Picture{MimeType: pic.MimeType, Data: pic.Picture})
	}

	return idTag{tag: tag}, pics, nil
}
