package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/vorbis"
)

var (
	errOggMagic     = errors.New("ogg: invalid capture pattern")
	errOggVersion   = errors.New("ogg: unsupported version")
	errNotVorbis    = errors.New("ogg: first stream is not vorbis")
	errVorbisHeader = errors.New("vorbis: invalid identification header")
)

const (
	oggHeaderLen     = 27
	oggFlagContinued = 0x01
	// noGranule marks a page on which no packet ends.
	noGranule = -1
)

type oggPageHeader struct {
	flags    byte
	granule  int64
	segments []uint8
}

func (h oggPageHeader) bodyLen() int64 {
	var n int64
	for _, s := range h.segments {
		n += int64(s)
	}
	return n
}

func readOggPageHeader(r io.Reader) (oggPageHeader, error) {
	var buf [oggHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return oggPageHeader{}, err
	}
	if string(buf[0:4]) != "OggS" {
		return oggPageHeader{}, errOggMagic
	}
	if buf[4] != 0 {
		return oggPageHeader{}, errOggVersion
	}
	h := oggPageHeader{
		flags:    buf[5],
		granule:  int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // -1 is meaningful
		segments: make([]uint8, buf[26]),
	}
	if _, err := io.ReadFull(r, h.segments); err != nil {
		return oggPageHeader{}, err
	}
	return h, nil
}

// oggPackets reassembles packets from consecutive pages of a single
// logical stream.
type oggPackets struct {
	r       io.ReadSeeker
	queue   [][]byte
	partial []byte
	// dropContinued discards a continuation at the start of the next page,
	// used after seeking into the middle of a stream.
	dropContinued bool
}

func (o *oggPackets) next() ([]byte, error) {
	for len(o.queue) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	pkt := o.queue[0]
	o.queue = o.queue[1:]
	return pkt, nil
}

func (o *oggPackets) readPage() error {
	h, err := readOggPageHeader(o.r)
	if err != nil {
		return err
	}
	body := make([]byte, h.bodyLen())
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}

	skipping := o.dropContinued && h.flags&oggFlagContinued != 0
	o.dropContinued = false
	off := 0
	for _, seg := range h.segments {
		if !skipping {
			o.partial = append(o.partial, body[off:off+int(seg)]...)
		}
		off += int(seg)
		if seg < 255 {
			if !skipping {
				o.queue = append(o.queue, o.partial)
			}
			o.partial = nil
			skipping = false
		}
	}
	return nil
}

func (o *oggPackets) seek(offset int64) error {
	if _, err := o.r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	o.queue = nil
	o.partial = nil
	o.dropContinued = true
	return nil
}

// vorbisStream decodes an Ogg Vorbis file with jfreymuth/vorbis.
type vorbisStream struct {
	f         io.ReadSeekCloser
	packets   *oggPackets
	dec       *vorbis.Decoder
	channels  int
	dataStart int64
	total     int
	pos       int

	pcm []float32
	err error
}

func decodeVorbis(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	packets := &oggPackets{r: rc}
	ident, err := packets.next()
	if err != nil {
		return nil, beep.Format{}, err
	}
	channels, rate, err := parseVorbisIdent(ident)
	if err != nil {
		return nil, beep.Format{}, err
	}

	dec := &vorbis.Decoder{}
	if err := dec.ReadHeader(ident); err != nil {
		return nil, beep.Format{}, err
	}
	// Comment and setup headers.
	for range 2 {
		pkt, err := packets.next()
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("vorbis headers: %w", err)
		}
		if err := dec.ReadHeader(pkt); err != nil {
			return nil, beep.Format{}, err
		}
	}

	// Audio starts on the page after the setup header.
	dataStart, err := rc.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, beep.Format{}, err
	}
	total, err := lastGranule(rc, dataStart)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if _, err := rc.Seek(dataStart, io.SeekStart); err != nil {
		return nil, beep.Format{}, err
	}

	s := &vorbisStream{
		f:         rc,
		packets:   packets,
		dec:       dec,
		channels:  channels,
		dataStart: dataStart,
		total:     int(total),
	}
	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}
	return s, format, nil
}

func parseVorbisIdent(pkt []byte) (channels, rate int, err error) {
	if len(pkt) < 7 || pkt[0] != 0x01 || string(pkt[1:7]) != "vorbis" {
		return 0, 0, errNotVorbis
	}
	if len(pkt) < 16 || binary.LittleEndian.Uint32(pkt[7:11]) != 0 {
		return 0, 0, errVorbisHeader
	}
	channels = int(pkt[11])
	rate = int(binary.LittleEndian.Uint32(pkt[12:16]))
	if channels == 0 || rate == 0 {
		return 0, 0, errVorbisHeader
	}
	return channels, rate, nil
}

// scanPages walks page headers from offset without reading bodies. visit
// gets each page's offset and header; returning false stops the walk.
func scanPages(r io.ReadSeeker, offset int64, visit func(off int64, h oggPageHeader) bool) error {
	for {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return err
		}
		h, err := readOggPageHeader(r)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !visit(offset, h) {
			return nil
		}
		offset += oggHeaderLen + int64(len(h.segments)) + h.bodyLen()
	}
}

func lastGranule(r io.ReadSeeker, from int64) (int64, error) {
	var last int64
	err := scanPages(r, from, func(_ int64, h oggPageHeader) bool {
		if h.granule != noGranule {
			last = h.granule
		}
		return true
	})
	return last, err
}

func (s *vorbisStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if len(s.pcm) >= s.channels {
			l := float64(s.pcm[0])
			r := l
			if s.channels > 1 {
				r = float64(s.pcm[1])
			}
			samples[n] = [2]float64{l, r}
			s.pcm = s.pcm[s.channels:]
			s.pos++
			n++
			continue
		}
		pkt, err := s.packets.next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			break
		}
		pcm, err := s.dec.Decode(pkt)
		if err != nil {
			// Corrupt packets are skipped.
			continue
		}
		s.pcm = pcm
	}
	return n, n > 0
}

func (s *vorbisStream) Err() error { return s.err }

func (s *vorbisStream) Len() int { return s.total }

func (s *vorbisStream) Position() int { return s.pos }

// Seek restarts decoding at the last page that ends before p and discards
// samples up to p.
func (s *vorbisStream) Seek(p int) error {
	p = min(max(p, 0), s.total)

	start, startGranule := s.dataStart, int64(0)
	err := scanPages(s.f, s.dataStart, func(off int64, h oggPageHeader) bool {
		if h.granule == noGranule {
			return true
		}
		if h.granule >= int64(p) {
			return false
		}
		start = off + oggHeaderLen + int64(len(h.segments)) + h.bodyLen()
		startGranule = h.granule
		return true
	})
	if err != nil {
		return err
	}
	if err := s.packets.seek(start); err != nil {
		return err
	}
	s.packets.dropContinued = start != s.dataStart
	s.dec.Clear()
	s.pcm = nil
	s.err = nil
	s.pos = int(startGranule)

	scratch := make([][2]float64, 512)
	for s.pos < p {
		want := min(p-s.pos, len(scratch))
		if n, ok := s.Stream(scratch[:want]); !ok || n == 0 {
			break
		}
	}
	return s.err
}

func (s *vorbisStream) Close() error { return s.f.Close() }
