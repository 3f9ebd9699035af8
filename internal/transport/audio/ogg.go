package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
)

const (
	oggHeaderLen     = 27
	oggFlagContinued = 0x01

	// oggTailWindow bounds the backwards scan for the final granule.
	oggTailWindow = 64 << 10
)

var (
	errOggCapture   = errors.New("ogg: invalid capture pattern")
	errOggVersion   = errors.New("ogg: unsupported version")
	errOggNoGranule = errors.New("ogg: no granule position found")
)

var oggCapture = []byte("OggS")

// oggPage is one container page with its body still laced.
type oggPage struct {
	granule   int64 // -1 when no packet ends on this page
	continued bool
	segments  []uint8
	body      []byte
}

func readOggPage(r io.Reader) (*oggPage, error) {
	var hdr [oggHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if !bytes.Equal(hdr[0:4], oggCapture) {
		return nil, errOggCapture
	}
	if hdr[4] != 0 {
		return nil, errOggVersion
	}

	p := &oggPage{
		granule:   int64(binary.LittleEndian.Uint64(hdr[6:14])),
		continued: hdr[5]&oggFlagContinued != 0,
		segments:  make([]uint8, hdr[26]),
	}
	if _, err := io.ReadFull(r, p.segments); err != nil {
		return nil, err
	}
	size := 0
	for _, s := range p.segments {
		size += int(s)
	}
	p.body = make([]byte, size)
	if _, err := io.ReadFull(r, p.body); err != nil {
		return nil, err
	}
	return p, nil
}

// oggPackets reassembles packets from consecutive pages of a single
// logical stream.
type oggPackets struct {
	r     io.ReadSeeker
	queue [][]byte
	carry []byte
	// lost is set after a seek: a continued packet at the landing page has
	// lost its start and is dropped.
	lost bool
}

func (o *oggPackets) next() ([]byte, error) {
	for len(o.queue) == 0 {
		page, err := readOggPage(o.r)
		if err != nil {
			return nil, err
		}
		o.add(page)
	}
	pkt := o.queue[0]
	o.queue = o.queue[1:]
	return pkt, nil
}

func (o *oggPackets) add(p *oggPage) {
	if !p.continued {
		o.carry = nil
	}
	discard := p.continued && o.lost
	off := 0
	for _, seg := range p.segments {
		if !discard {
			o.carry = append(o.carry, p.body[off:off+int(seg)]...)
		}
		off += int(seg)
		if seg < 255 {
			if !discard && len(o.carry) > 0 {
				o.queue = append(o.queue, o.carry)
			}
			o.carry = nil
			discard = false
		}
	}
	o.lost = discard
}

// seekGranule positions the reader just after the last page, at or after
// start, whose granule is below target. It returns that granule, which is
// where decoding resumes.
func (o *oggPackets) seekGranule(start, target int64) (int64, error) {
	off := start
	if _, err := o.r.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}

	var prev int64
	for {
		page, err := readOggPage(o.r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if page.granule < 0 {
			continue
		}
		if page.granule >= target {
			break
		}
		prev = page.granule
		if off, err = o.r.Seek(0, io.SeekCurrent); err != nil {
			return 0, err
		}
	}

	if _, err := o.r.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	o.queue = nil
	o.carry = nil
	o.lost = true
	return prev, nil
}

// lastOggGranule returns the granule of the final page that ends a packet.
func lastOggGranule(r io.ReadSeeker) (int64, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	start := max(end-oggTailWindow, 0)
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}
	buf := make([]byte, end-start)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}

	for i := bytes.LastIndex(buf, oggCapture); i >= 0; i = bytes.LastIndex(buf[:i], oggCapture) {
		if i+oggHeaderLen > len(buf) || buf[i+4] != 0 {
			continue
		}
		if g := int64(binary.LittleEndian.Uint64(buf[i+6 : i+14])); g >= 0 {
			return g, nil
		}
	}
	return 0, errOggNoGranule
}

// decodeOgg decodes an Ogg Opus or Ogg Vorbis stream.
func decodeOgg(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return openOgg(rc, detectOggCodec)
}

func openOgg(rc io.ReadSeekCloser, detect func([]byte) (oggCodec, error)) (beep.StreamSeekCloser, beep.Format, error) {
	packets := &oggPackets{r: rc}

	first, err := packets.next()
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("ogg: read identification header: %w", err)
	}
	codec, err := detect(first)
	if err != nil {
		return nil, beep.Format{}, err
	}
	for !codec.ready() {
		pkt, err := packets.next()
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("ogg: read headers: %w", err)
		}
		if err := codec.header(pkt); err != nil {
			return nil, beep.Format{}, err
		}
	}

	// Audio always starts on a fresh page after the headers.
	dataStart, err := rc.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, beep.Format{}, err
	}
	last, err := lastOggGranule(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	d := &oggDecoder{
		closer:    rc,
		packets:   packets,
		codec:     codec,
		dataStart: dataStart,
		length:    int(max(codec.fromGranule(last), 0)),
		pcm:       make([]float32, 0, oggMaxFrame*codec.channels()),
	}
	if err := d.Seek(0); err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.sampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return d, format, nil
}

// oggMaxFrame is the largest frame either codec decodes from one packet,
// in samples per channel.
const oggMaxFrame = 8192

// oggDecoder implements beep.StreamSeekCloser on top of an oggCodec.
// Output is always stereo: mono is duplicated, extra channels are dropped.
type oggDecoder struct {
	closer    io.Closer
	packets   *oggPackets
	codec     oggCodec
	dataStart int64
	length    int

	pos    int // samples reported so far
	skip   int // decoded samples to drop before pos advances
	pcm    []float32
	pcmPos int
	err    error
}

func (d *oggDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	ch := d.codec.channels()

	for n < len(samples) {
		if d.pcmPos < len(d.pcm) {
			if d.skip > 0 {
				d.skip--
				d.pcmPos += ch
				continue
			}
			left := float64(d.pcm[d.pcmPos])
			right := left
			if ch > 1 {
				right = float64(d.pcm[d.pcmPos+1])
			}
			samples[n] = [2]float64{left, right}
			d.pcmPos += ch
			d.pos++
			n++
			continue
		}

		pkt, err := d.packets.next()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				d.err = err
			}
			return n, n > 0
		}
		frames, err := d.codec.decode(pkt, d.pcm[:cap(d.pcm)])
		if err != nil {
			continue // corrupt packets are skipped
		}
		d.pcm = d.pcm[:frames*ch]
		d.pcmPos = 0
	}
	return n, true
}

func (d *oggDecoder) Err() error { return d.err }

func (d *oggDecoder) Len() int { return d.length }

func (d *oggDecoder) Position() int { return d.pos }

// Seek lands on the page holding p minus the codec's pre-roll, then decodes
// and drops samples up to p.
func (d *oggDecoder) Seek(p int) error {
	p = min(max(p, 0), d.length)
	from := max(p-d.codec.preroll(), 0)

	prev, err := d.packets.seekGranule(d.dataStart, d.codec.toGranule(int64(from)))
	if err != nil {
		return err
	}
	if err := d.codec.reset(); err != nil {
		return err
	}

	d.pcm = d.pcm[:0]
	d.pcmPos = 0
	d.pos = p
	d.skip = max(p-int(d.codec.fromGranule(prev)), 0)
	d.err = nil
	return nil
}

func (d *oggDecoder) Close() error {
	return d.closer.Close()
}
