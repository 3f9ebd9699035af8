package audio

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

const (
	opusSampleRate = 48000
	// opusPreroll is the decoder convergence time recommended before a
	// seek target: 80ms.
	opusPreroll = 3840
)

var (
	errUnknownOggCodec      = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidOpusHead      = errors.New("opus: invalid identification header")
	errUnsupportedOpus      = errors.New("opus: unsupported version or channel mapping")
	errInvalidVorbisHead    = errors.New("vorbis: invalid identification header")
	errVorbisBufferTooSmall = errors.New("vorbis: output buffer too small")
)

var (
	opusHeadMagic   = []byte("OpusHead")
	vorbisHeadMagic = []byte("\x01vorbis")
)

// oggCodec decodes the packets of one Ogg logical stream.
type oggCodec interface {
	sampleRate() int
	channels() int
	// header consumes a header packet after the identification header.
	header(packet []byte) error
	// ready reports whether every header has been consumed.
	ready() bool
	// decode writes interleaved samples into pcm and returns the number of
	// samples per channel.
	decode(packet []byte, pcm []float32) (int, error)
	toGranule(samples int64) int64
	fromGranule(granule int64) int64
	// preroll is how many samples before a seek target decoding must start.
	preroll() int
	reset() error
}

func detectOggCodec(first []byte) (oggCodec, error) {
	switch {
	case bytes.HasPrefix(first, opusHeadMagic):
		return newOpusCodec(first)
	case bytes.HasPrefix(first, vorbisHeadMagic):
		return newVorbisCodec(first)
	default:
		return nil, errUnknownOggCodec
	}
}

type opusCodec struct {
	decoder *opus.Decoder
	ch      int
	preSkip int
	tags    bool
}

// newOpusCodec parses an OpusHead packet. Only mono and stereo streams
// (channel mapping family 0) are supported.
func newOpusCodec(head []byte) (*opusCodec, error) {
	if len(head) < 19 {
		return nil, errInvalidOpusHead
	}
	if head[8]>>4 != 0 || head[18] != 0 {
		return nil, errUnsupportedOpus
	}
	ch := int(head[9])
	if ch < 1 || ch > 2 {
		return nil, errUnsupportedOpus
	}

	decoder, err := opus.NewDecoder(opusSampleRate, ch)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		decoder: decoder,
		ch:      ch,
		preSkip: int(binary.LittleEndian.Uint16(head[10:12])),
	}, nil
}

func (c *opusCodec) sampleRate() int { return opusSampleRate }

func (c *opusCodec) channels() int { return c.ch }

// header consumes OpusTags, the only header after OpusHead.
func (c *opusCodec) header(_ []byte) error {
	c.tags = true
	return nil
}

func (c *opusCodec) ready() bool { return c.tags }

func (c *opusCodec) decode(packet []byte, pcm []float32) (int, error) {
	return c.decoder.DecodeFloat32(packet, pcm)
}

func (c *opusCodec) toGranule(samples int64) int64 { return samples + int64(c.preSkip) }

func (c *opusCodec) fromGranule(granule int64) int64 { return granule - int64(c.preSkip) }

func (c *opusCodec) preroll() int { return opusPreroll }

func (c *opusCodec) reset() error { return nil }

type vorbisCodec struct {
	decoder *vorbis.Decoder
	ch      int
	rate    int
	headers [][]byte // identification, comment, setup
}

func newVorbisCodec(ident []byte) (*vorbisCodec, error) {
	// [7:11] version, [11] channels, [12:16] sample rate.
	if len(ident) < 16 || binary.LittleEndian.Uint32(ident[7:11]) != 0 {
		return nil, errInvalidVorbisHead
	}
	ch := int(ident[11])
	rate := int(binary.LittleEndian.Uint32(ident[12:16]))
	if ch == 0 || rate == 0 {
		return nil, errInvalidVorbisHead
	}
	return &vorbisCodec{
		ch:      ch,
		rate:    rate,
		headers: [][]byte{bytes.Clone(ident)},
	}, nil
}

func (c *vorbisCodec) sampleRate() int { return c.rate }

func (c *vorbisCodec) channels() int { return c.ch }

func (c *vorbisCodec) header(packet []byte) error {
	c.headers = append(c.headers, bytes.Clone(packet))
	if len(c.headers) < 3 {
		return nil
	}
	decoder := &vorbis.Decoder{}
	for _, h := range c.headers {
		if err := decoder.ReadHeader(h); err != nil {
			return err
		}
	}
	c.decoder = decoder
	c.headers = nil
	return nil
}

func (c *vorbisCodec) ready() bool { return c.decoder != nil }

func (c *vorbisCodec) decode(packet []byte, pcm []float32) (int, error) {
	samples, err := c.decoder.Decode(packet)
	if err != nil {
		return 0, err
	}
	if len(samples) > len(pcm) {
		return 0, errVorbisBufferTooSmall
	}
	return copy(pcm, samples) / c.ch, nil
}

func (c *vorbisCodec) toGranule(samples int64) int64 { return samples }

func (c *vorbisCodec) fromGranule(granule int64) int64 { return granule }

// preroll is zero: the first packet after Clear only primes the overlap.
func (c *vorbisCodec) preroll() int { return 0 }

func (c *vorbisCodec) reset() error {
	c.decoder.Clear()
	return nil
}
