package player

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

var errUnknownM4ACodec = errors.New("m4a: unsupported codec")

// alacFrameSize is the default ALAC frames-per-packet.
const alacFrameSize = 4096

// m4aStream demuxes an MP4 audio track and decodes its AAC or ALAC
// samples into stereo frames.
type m4aStream struct {
	box    *m4a.Reader
	closer io.Closer
	codec  m4a.CodecType

	aac  *faad2.Decoder
	alac *alac.Alac

	channels int
	bits     int
	total    int
	next     int

	pending [][2]float64
	err     error
}

func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	box, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	rate := box.SampleRate()
	s := &m4aStream{
		box:      box,
		closer:   rc,
		codec:    box.Codec(),
		channels: int(box.Channels()),
		bits:     int(box.SampleSize()),
		total:    int(box.Duration().Seconds() * float64(rate)),
	}
	if s.channels < 1 {
		return nil, beep.Format{}, errors.New("m4a: no audio channels")
	}

	precision := 2
	switch s.codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := dec.Init(ctx, box.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, err
		}
		s.aac = dec
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(rate),
			SampleSize:  s.bits,
			NumChannels: s.channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, err
		}
		s.alac = dec
		if s.bits == 24 {
			precision = 3
		}
	default:
		return nil, beep.Format{}, errUnknownM4ACodec
	}

	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: precision}
	return s, format, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if len(s.pending) > 0 {
			c := copy(samples[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}
		if s.next >= s.box.SampleCount() {
			break
		}
		if err := s.decodeNext(); err != nil {
			s.err = err
			break
		}
	}
	return n, n > 0
}

func (s *m4aStream) decodeNext() error {
	packet, err := s.box.ReadSample(s.next)
	if err != nil {
		return err
	}
	s.next++

	switch s.codec {
	case m4a.CodecAAC:
		pcm, err := s.aac.Decode(context.Background(), packet)
		if err != nil {
			return err
		}
		s.pending = int16Frames(pcm, s.channels)
	case m4a.CodecALAC:
		s.pending = alacFrames(s.alac.Decode(packet), s.channels, s.bits)
	default:
		return errUnknownM4ACodec
	}
	return nil
}

// int16Frames converts interleaved PCM to stereo frames; mono is duplicated
// and channels beyond the first two are dropped.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / 32768
		r := l
		if channels > 1 {
			r = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// alacFrames converts little-endian 16- or 24-bit PCM bytes to stereo frames.
func alacFrames(data []byte, channels, bits int) [][2]float64 {
	width := 2
	scale := 32768.0
	if bits == 24 {
		width = 3
		scale = 8388608
	}
	stride := width * channels
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		off := i * stride
		l := float64(pcmSigned(data[off:off+width])) / scale
		r := l
		if channels > 1 {
			r = float64(pcmSigned(data[off+width:off+2*width])) / scale
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// pcmSigned decodes a 2- or 3-byte little-endian two's complement sample.
func pcmSigned(b []byte) int32 {
	var v int32
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | int32(b[i])
	}
	shift := 32 - 8*len(b)
	return v << shift >> shift
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.total }

func (s *m4aStream) Position() int {
	return int(s.box.SampleTime(s.next).Seconds() * float64(s.box.SampleRate()))
}

func (s *m4aStream) Seek(p int) error {
	p = min(max(p, 0), s.total)
	pos := time.Duration(float64(p) / float64(s.box.SampleRate()) * float64(time.Second))
	s.next = s.box.SeekToTime(pos)
	s.pending = nil
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return s.closer.Close()
}
