package player

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage builds a page holding the given segment payloads. Lacing values
// are taken from the payload lengths, which must each be <= 255.
func oggPage(flags byte, granule int64, segments ...[]byte) []byte {
	var b bytes.Buffer
	b.WriteString("OggS")
	b.WriteByte(0)
	b.WriteByte(flags)
	_ = binary.Write(&b, binary.LittleEndian, granule)
	b.Write(make([]byte, 12)) // serial, sequence, checksum
	b.WriteByte(byte(len(segments)))
	for _, s := range segments {
		b.WriteByte(byte(len(s)))
	}
	for _, s := range segments {
		b.Write(s)
	}
	return b.Bytes()
}

func fill(n int, v byte) []byte { return bytes.Repeat([]byte{v}, n) }

func TestOggPackets_Reassembly(t *testing.T) {
	var data []byte
	// Page 1: packet "ab", then a packet that spills onto page 2.
	data = append(data, oggPage(0, 10, []byte("ab"), fill(255, 'x'))...)
	// Page 2: continuation ending with 3 bytes, then packet "cd".
	data = append(data, oggPage(oggFlagContinued, 20, []byte("yyy"), []byte("cd"))...)

	o := &oggPackets{r: bytes.NewReader(data)}

	pkt, err := o.next()
	require.NoError(t, err)
	assert.Equal(t, "ab", string(pkt))

	pkt, err = o.next()
	require.NoError(t, err)
	assert.Len(t, pkt, 258)
	assert.Equal(t, "yyy", string(pkt[255:]))

	pkt, err = o.next()
	require.NoError(t, err)
	assert.Equal(t, "cd", string(pkt))

	_, err = o.next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOggPackets_SeekDropsContinuation(t *testing.T) {
	first := oggPage(0, 10, fill(255, 'x'))
	second := oggPage(oggFlagContinued, 20, []byte("tail"), []byte("next"))
	data := append(append([]byte{}, first...), second...)

	o := &oggPackets{r: bytes.NewReader(data)}
	require.NoError(t, o.seek(int64(len(first))))

	pkt, err := o.next()
	require.NoError(t, err)
	assert.Equal(t, "next", string(pkt))
}

func TestReadOggPageHeader_Invalid(t *testing.T) {
	bad := oggPage(0, 0, []byte("a"))
	copy(bad, "Nope")
	_, err := readOggPageHeader(bytes.NewReader(bad))
	assert.ErrorIs(t, err, errOggMagic)

	badVersion := oggPage(0, 0, []byte("a"))
	badVersion[4] = 1
	_, err = readOggPageHeader(bytes.NewReader(badVersion))
	assert.ErrorIs(t, err, errOggVersion)
}

func TestLastGranule(t *testing.T) {
	var data []byte
	data = append(data, oggPage(0, 100, []byte("a"))...)
	data = append(data, oggPage(0, 250, []byte("b"))...)
	data = append(data, oggPage(0, noGranule, fill(255, 'c'))...)

	got, err := lastGranule(bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got)
}

func vorbisIdent(channels byte, rate uint32) []byte {
	pkt := []byte{0x01, 'v', 'o', 'r', 'b', 'i', 's', 0, 0, 0, 0, channels}
	pkt = binary.LittleEndian.AppendUint32(pkt, rate)
	return append(pkt, make([]byte, 14)...)
}

func TestParseVorbisIdent(t *testing.T) {
	ch, rate, err := parseVorbisIdent(vorbisIdent(2, 44100))
	require.NoError(t, err)
	assert.Equal(t, 2, ch)
	assert.Equal(t, 44100, rate)

	_, _, err = parseVorbisIdent([]byte("OpusHead........"))
	assert.ErrorIs(t, err, errNotVorbis)

	_, _, err = parseVorbisIdent(vorbisIdent(0, 44100))
	assert.ErrorIs(t, err, errVorbisHeader)
}

type nopSeekCloser struct{ io.ReadSeeker }

func (nopSeekCloser) Close() error { return nil }

func TestDecodeVorbis_RejectsOtherCodecs(t *testing.T) {
	data := oggPage(0x02, 0, []byte("OpusHead\x01\x02\x00\x00\x80\xbb\x00\x00\x00\x00\x00"))
	_, _, err := decodeVorbis(nopSeekCloser{bytes.NewReader(data)})
	assert.ErrorIs(t, err, errNotVorbis)
}
