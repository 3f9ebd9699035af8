package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }

func oggPageBytes(granule int64, continued bool, segments []uint8, body []byte) []byte {
	var b bytes.Buffer
	b.Write(oggCapture)
	b.WriteByte(0)
	if continued {
		b.WriteByte(oggFlagContinued)
	} else {
		b.WriteByte(0)
	}
	var g [8]byte
	binary.LittleEndian.PutUint64(g[:], uint64(granule))
	b.Write(g[:])
	b.Write(make([]byte, 12)) // serial, sequence, checksum
	b.WriteByte(byte(len(segments)))
	b.Write(segments)
	b.Write(body)
	return b.Bytes()
}

// page laces complete packets into one page.
func page(granule int64, packets ...[]byte) []byte {
	var segs []uint8
	var body []byte
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			segs = append(segs, 255)
			n -= 255
		}
		segs = append(segs, uint8(n))
		body = append(body, p...)
	}
	return oggPageBytes(granule, false, segs, body)
}

func samples(value byte, n int) []byte {
	return bytes.Repeat([]byte{value}, n)
}

// fakeCodec decodes each packet byte into one sample per channel. Channel c
// gets the byte value plus c/2.
type fakeCodec struct {
	ch      int
	headers int
	resets  int
}

func fakeDetect(ch int) func([]byte) (oggCodec, error) {
	return func(first []byte) (oggCodec, error) {
		if !bytes.HasPrefix(first, []byte("FAKE")) {
			return nil, errUnknownOggCodec
		}
		return &fakeCodec{ch: ch}, nil
	}
}

func (c *fakeCodec) sampleRate() int { return 1000 }
func (c *fakeCodec) channels() int   { return c.ch }
func (c *fakeCodec) header([]byte) error {
	c.headers++
	return nil
}
func (c *fakeCodec) ready() bool { return c.headers >= 1 }
func (c *fakeCodec) decode(packet []byte, pcm []float32) (int, error) {
	if bytes.Equal(packet, []byte("BAD")) {
		return 0, errors.New("corrupt")
	}
	for i, b := range packet {
		for ch := range c.ch {
			pcm[i*c.ch+ch] = float32(b) + float32(ch)/2
		}
	}
	return len(packet), nil
}
func (c *fakeCodec) toGranule(s int64) int64   { return s }
func (c *fakeCodec) fromGranule(g int64) int64 { return g }
func (c *fakeCodec) preroll() int              { return 0 }
func (c *fakeCodec) reset() error {
	c.resets++
	return nil
}

func testStream() []byte {
	var b []byte
	b = append(b, page(0, []byte("FAKEHEAD"))...)
	b = append(b, page(0, []byte("TAGS"))...)
	b = append(b, page(20, samples(1, 10), samples(2, 10))...)
	b = append(b, page(30, samples(3, 10))...)
	b = append(b, page(40, samples(4, 10))...)
	return b
}

func openTestStream(t *testing.T, data []byte, ch int) *oggDecoder {
	t.Helper()
	s, format, err := openOgg(nopCloser{bytes.NewReader(data)}, fakeDetect(ch))
	if err != nil {
		t.Fatalf("openOgg() error = %v", err)
	}
	if format.SampleRate != 1000 || format.NumChannels != 2 {
		t.Errorf("format = %+v, want 1000 Hz stereo", format)
	}
	return s.(*oggDecoder)
}

func readAll(d *oggDecoder) []float64 {
	var out []float64
	buf := make([][2]float64, 7)
	for {
		n, ok := d.Stream(buf)
		for _, s := range buf[:n] {
			out = append(out, s[0])
		}
		if !ok {
			return out
		}
	}
}

func TestOgg_DecodesWholeStream(t *testing.T) {
	d := openTestStream(t, testStream(), 1)

	if d.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", d.Len())
	}
	got := readAll(d)
	if len(got) != 40 {
		t.Fatalf("decoded %d samples, want 40", len(got))
	}
	for i, v := range got {
		if want := float64(i/10 + 1); v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
	if d.Position() != 40 {
		t.Errorf("Position() = %d, want 40", d.Position())
	}
	if d.Err() != nil {
		t.Errorf("Err() = %v", d.Err())
	}
}

func TestOgg_Seek(t *testing.T) {
	d := openTestStream(t, testStream(), 1)
	codec := d.codec.(*fakeCodec)
	resets := codec.resets

	if err := d.Seek(25); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if d.Position() != 25 {
		t.Errorf("Position() = %d, want 25", d.Position())
	}
	if codec.resets != resets+1 {
		t.Error("Seek() did not reset the codec")
	}

	buf := make([][2]float64, 5)
	if n, ok := d.Stream(buf); n != 5 || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	for _, s := range buf {
		if s[0] != 3 {
			t.Fatalf("sample after seek = %v, want 3", s[0])
		}
	}
	if d.Position() != 30 {
		t.Errorf("Position() = %d, want 30", d.Position())
	}
	if rest := readAll(d); len(rest) != 10 || rest[0] != 4 {
		t.Errorf("remaining = %v, want ten 4s", rest)
	}
}

func TestOgg_SeekClampsToEnd(t *testing.T) {
	d := openTestStream(t, testStream(), 1)

	if err := d.Seek(1000); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if d.Position() != 40 {
		t.Errorf("Position() = %d, want 40", d.Position())
	}
	if n, ok := d.Stream(make([][2]float64, 4)); n != 0 || ok {
		t.Errorf("Stream() at end = %d, %v, want 0, false", n, ok)
	}
}

func TestOgg_PacketSpanningPages(t *testing.T) {
	long := samples(5, 300)
	var b []byte
	b = append(b, page(0, []byte("FAKEHEAD"))...)
	b = append(b, page(0, []byte("TAGS"))...)
	b = append(b, oggPageBytes(-1, false, []uint8{255}, long[:255])...)
	b = append(b, oggPageBytes(310, true, []uint8{45, 10}, append(long[255:], samples(6, 10)...))...)

	d := openTestStream(t, b, 1)
	if d.Len() != 310 {
		t.Fatalf("Len() = %d, want 310", d.Len())
	}
	got := readAll(d)
	if len(got) != 310 || got[0] != 5 || got[299] != 5 || got[300] != 6 {
		t.Errorf("decoded %d samples, want 300 of 5 then 10 of 6", len(got))
	}
}

func TestOgg_SkipsCorruptPackets(t *testing.T) {
	var b []byte
	b = append(b, page(0, []byte("FAKEHEAD"))...)
	b = append(b, page(0, []byte("TAGS"))...)
	b = append(b, page(20, samples(1, 10), []byte("BAD"), samples(2, 10))...)

	d := openTestStream(t, b, 1)
	if got := readAll(d); len(got) != 20 {
		t.Errorf("decoded %d samples, want 20", len(got))
	}
}

func TestOgg_ChannelMapping(t *testing.T) {
	for _, ch := range []int{1, 2, 3} {
		d := openTestStream(t, testStream(), ch)
		buf := make([][2]float64, 1)
		if n, _ := d.Stream(buf); n != 1 {
			t.Fatalf("%d channels: Stream() = %d", ch, n)
		}
		want := [2]float64{1, 1.5}
		if ch == 1 {
			want = [2]float64{1, 1}
		}
		if buf[0] != want {
			t.Errorf("%d channels: sample = %v, want %v", ch, buf[0], want)
		}
	}
}

func TestOggPackets_DropsLostFragmentAfterSeek(t *testing.T) {
	o := &oggPackets{lost: true}
	p, err := readOggPage(bytes.NewReader(oggPageBytes(310, true, []uint8{45, 3}, append(samples(5, 45), 7, 7, 7))))
	if err != nil {
		t.Fatalf("readOggPage() error = %v", err)
	}

	o.add(p)

	if len(o.queue) != 1 || !bytes.Equal(o.queue[0], []byte{7, 7, 7}) {
		t.Errorf("queue = %v, want only the complete packet", o.queue)
	}
	if o.lost {
		t.Error("lost still set after resync")
	}
}

func TestLastOggGranule_SkipsPagesWithoutEnd(t *testing.T) {
	b := append(testStream(), oggPageBytes(-1, false, []uint8{255}, samples(9, 255))...)

	g, err := lastOggGranule(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("lastOggGranule() error = %v", err)
	}
	if g != 40 {
		t.Errorf("lastOggGranule() = %d, want 40", g)
	}
}

func TestReadOggPage_Invalid(t *testing.T) {
	if _, err := readOggPage(bytes.NewReader(make([]byte, oggHeaderLen))); !errors.Is(err, errOggCapture) {
		t.Errorf("readOggPage() error = %v, want errOggCapture", err)
	}
	bad := page(0, []byte("x"))
	bad[4] = 1
	if _, err := readOggPage(bytes.NewReader(bad)); !errors.Is(err, errOggVersion) {
		t.Errorf("readOggPage() error = %v, want errOggVersion", err)
	}
}

func TestDetectOggCodec(t *testing.T) {
	if _, err := detectOggCodec([]byte("FAKEHEAD")); !errors.Is(err, errUnknownOggCodec) {
		t.Errorf("detectOggCodec() error = %v, want errUnknownOggCodec", err)
	}

	ident := make([]byte, 30)
	copy(ident, vorbisHeadMagic)
	ident[11] = 2
	binary.LittleEndian.PutUint32(ident[12:16], 44100)
	c, err := detectOggCodec(ident)
	if err != nil {
		t.Fatalf("detectOggCodec() error = %v", err)
	}
	if c.channels() != 2 || c.sampleRate() != 44100 || c.ready() {
		t.Errorf("vorbis codec = %d ch, %d Hz, ready %v", c.channels(), c.sampleRate(), c.ready())
	}

	binary.LittleEndian.PutUint32(ident[7:11], 1)
	if _, err := detectOggCodec(ident); !errors.Is(err, errInvalidVorbisHead) {
		t.Errorf("vorbis version 1 error = %v, want errInvalidVorbisHead", err)
	}
}

func TestNewOpusCodec_Rejects(t *testing.T) {
	if _, err := newOpusCodec([]byte("OpusHead")); !errors.Is(err, errInvalidOpusHead) {
		t.Errorf("short header error = %v, want errInvalidOpusHead", err)
	}

	head := make([]byte, 19)
	copy(head, opusHeadMagic)
	head[8] = 1
	head[9] = 6
	head[18] = 1
	if _, err := newOpusCodec(head); !errors.Is(err, errUnsupportedOpus) {
		t.Errorf("surround header error = %v, want errUnsupportedOpus", err)
	}
}
