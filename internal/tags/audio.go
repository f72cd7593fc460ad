package tags

import (
	"io"
	"os"
	"time"

	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

// readDuration returns the stream length of path, 0 when unknown.
// TagLib properties are tried first, then a container-level decoder.
func readDuration(path string) time.Duration {
	if props, err := taglib.ReadProperties(path); err == nil && props.Length > 0 {
		return props.Length
	}

	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var d time.Duration
	switch extOf(path) {
	case ExtMP3:
		d, err = mp3Duration(f)
	case ExtFLAC:
		d, err = flacDuration(f)
	case ExtWAV:
		d, err = wavDuration(f)
	case ExtM4A, ExtAAC:
		d, err = m4aDuration(f)
	}
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func mp3Duration(f *os.File) (time.Duration, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}
	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, nil
	}
	samples := max(decoder.SampleCount(), 0)
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second)), nil
}

func flacDuration(f *os.File) (time.Duration, error) {
	if err := SkipID3v2(f); err != nil {
		return 0, err
	}
	streamer, format, err := flac.Decode(f)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

func wavDuration(f *os.File) (time.Duration, error) {
	streamer, format, err := wav.Decode(f)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

func m4aDuration(f *os.File) (time.Duration, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return 0, err
	}
	return container.Duration(), nil
}

// SkipID3v2 positions r past a leading ID3v2 tag, or at the start when
// there is none. Some taggers prepend one to FLAC files.
func SkipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n < 10 {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	if string(header[0:3]) != id3Magic {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Syncsafe size in bytes 6-9.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
