package extractor

import (
	"fmt"
	"os"

	"github.com/llehouerou/go-mp3"
)

// mp3Duration frame-scans an MP3 file to compute its duration in seconds.
// go-mp3 decodes to 16-bit stereo PCM, so the sample count divides out to
// duration via 4 bytes (2 channels * 2 bytes/sample) per frame.
func mp3Duration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open for duration scan: %w", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}

	sampleRate := dec.SampleRate()
	if sampleRate <= 0 {
		return 0, fmt.Errorf("mp3 decoder reported zero sample rate")
	}

	return int(dec.Length() / 4 / int64(sampleRate)), nil
}
