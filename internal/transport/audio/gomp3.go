package audio

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// goMP3Decoder adapts an mp3.Decoder to beep.StreamSeekCloser.
type goMP3Decoder struct {
	decoder *mp3.Decoder
	closer  io.Closer
	err     error
	readBuf []byte
}

func decodeGoMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2, // go-mp3 always outputs stereo
		Precision:   2,
	}
	return &goMP3Decoder{
		decoder: decoder,
		closer:  rc,
		readBuf: make([]byte, 8192),
	}, format, nil
}

func (d *goMP3Decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	// 4 bytes per frame: stereo, 16-bit little endian.
	need := len(samples) * 4
	if len(d.readBuf) < need {
		d.readBuf = make([]byte, need)
	}

	read, err := io.ReadFull(d.decoder, d.readBuf[:need])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	frames := read / 4
	if frames == 0 {
		return 0, false
	}
	for i := range frames {
		off := i * 4
		left := int16(binary.LittleEndian.Uint16(d.readBuf[off:]))    //nolint:gosec // audio samples
		right := int16(binary.LittleEndian.Uint16(d.readBuf[off+2:])) //nolint:gosec // audio samples
		samples[i][0] = float64(left) / 32768.0
		samples[i][1] = float64(right) / 32768.0
	}
	return frames, true
}

func (d *goMP3Decoder) Err() error { return d.err }

func (d *goMP3Decoder) Len() int {
	return max(int(d.decoder.SampleCount()), 0)
}

func (d *goMP3Decoder) Position() int {
	return int(d.decoder.SamplePosition())
}

func (d *goMP3Decoder) Seek(p int) error {
	p = min(max(p, 0), d.Len())
	if err := d.decoder.SeekToSample(int64(p)); err != nil {
		return err
	}
	d.err = nil
	return nil
}

func (d *goMP3Decoder) Close() error {
	return d.closer.Close()
}
