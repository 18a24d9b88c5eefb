package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// probeTag wraps the lowercased key/value tags ffprobe reports for a
// non-MP3 (or unrecognised-mime) file.
type probeTag struct {
	fields map[string]string
}

func (t probeTag) Title() (string, bool)  { return t.field("title") }
func (t probeTag) Artist() (string, bool) { return t.field("artist") }
func (t probeTag) Album() (string, bool)  { return t.field("album") }
func (t probeTag) Genre() (string, bool)  { return t.field("genre") }
func (t probeTag) Track() (string, bool)  { return t.field("track") }

func (t probeTag) field(name string) (string, bool) {
	v, ok := t.fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// probeOutput mirrors the subset of ffprobe's JSON output this extractor
// consumes: `-show_entries stream_tags:format_tags -of json`.
type probeOutput struct {
	Format struct {
		Tags map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		Tags map[string]string `json:"tags"`
	} `json:"streams"`
}

// readProbe shells out to ffprobe for any file whose guessed mime is not
// audio/mpeg. Stream-level tags are merged over format-level tags (stream
// tags, when present, are usually the more specific ones) before the whole
// map's keys are lowercased, matching spec §4.B's "keys are lowercased
// before destructuring."
func readProbe(ctx context.Context, path string) (Tag, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-loglevel", "error",
		"-show_entries", "stream_tags:format_tags",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("run ffprobe: %w", err)
	}

	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return nil, fmt.Errorf("decode ffprobe output: %w", err)
	}

	merged := make(map[string]string, len(probed.Format.Tags))
	for k, v := range probed.Format.Tags {
		merged[strings.ToLower(k)] = v
	}
	for _, s := range probed.Streams {
		for k, v := range s.Tags {
			merged[strings.ToLower(k)] = v
		}
	}

	if merged["title"] == "" {
		return nil, fmt.Errorf("ffprobe output missing required title field")
	}

	return probeTag{fields: merged}, nil
}
