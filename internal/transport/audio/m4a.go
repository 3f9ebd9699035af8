package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// alacFrameSize is the default ALAC frame length in samples.
const alacFrameSize = 4096

// m4aFrames decodes one container sample into stereo frames.
type m4aFrames func(sample []byte) ([][2]float64, error)

// m4aDecoder streams an MP4 audio track through the AAC or ALAC codec the
// container declares.
type m4aDecoder struct {
	container *m4a.Reader
	rc        io.Closer
	decode    m4aFrames
	release   func()
	format    beep.Format

	next   int // next container sample to read
	length int // total length in frames

	pending [][2]float64
	err     error
}

func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	c, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	d := &m4aDecoder{
		container: c,
		rc:        rc,
		release:   func() {},
		length:    int(c.Duration().Seconds() * float64(c.SampleRate())),
	}
	d.format = beep.Format{
		SampleRate:  beep.SampleRate(c.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}

	channels := int(c.Channels())
	switch c.Codec() {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := dec.Init(ctx, c.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, fmt.Errorf("aac init: %w", err)
		}
		d.release = func() { dec.Close(context.Background()) }
		d.decode = func(sample []byte) ([][2]float64, error) {
			pcm, err := dec.Decode(context.Background(), sample)
			if err != nil {
				return nil, err
			}
			return int16Frames(pcm, channels), nil
		}
	case m4a.CodecALAC:
		bits := int(c.SampleSize())
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(c.SampleRate()),
			SampleSize:  bits,
			NumChannels: channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("alac init: %w", err)
		}
		if bits == 24 {
			d.format.Precision = 3
		}
		d.decode = func(sample []byte) ([][2]float64, error) {
			return pcmFrames(dec.Decode(sample), bits, channels), nil
		}
	default:
		return nil, beep.Format{}, errors.New("m4a: unsupported codec")
	}
	return d, d.format, nil
}

func (d *m4aDecoder) Stream(samples [][2]float64) (int, bool) {
	if d.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if len(d.pending) > 0 {
			c := copy(samples[n:], d.pending)
			d.pending = d.pending[c:]
			n += c
			continue
		}
		if d.next >= d.container.SampleCount() {
			break
		}
		raw, err := d.container.ReadSample(d.next)
		if err != nil {
			d.err = err
			break
		}
		d.next++
		frames, err := d.decode(raw)
		if err != nil {
			d.err = err
			break
		}
		d.pending = frames
	}
	return n, n > 0
}

func (d *m4aDecoder) Err() error { return d.err }

func (d *m4aDecoder) Len() int { return d.length }

func (d *m4aDecoder) Position() int {
	t := d.container.SampleTime(d.next)
	return int(t.Seconds()*float64(d.format.SampleRate)) - len(d.pending)
}

// Seek lands on the container sample holding frame p. Accuracy is one
// codec frame.
func (d *m4aDecoder) Seek(p int) error {
	p = min(max(p, 0), d.length)
	at := time.Duration(float64(p) / float64(d.format.SampleRate) * float64(time.Second))
	d.next = d.container.SeekToTime(at)
	d.pending = nil
	d.err = nil
	return nil
}

func (d *m4aDecoder) Close() error {
	d.release()
	return d.rc.Close()
}

// int16Frames converts interleaved 16-bit PCM to stereo frames. Mono is
// duplicated to both sides.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	if channels < 1 {
		return nil
	}
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

// pcmFrames converts little-endian 16 or 24-bit PCM bytes to stereo frames.
func pcmFrames(data []byte, bits, channels int) [][2]float64 {
	width := 2
	scale := 32768.0
	if bits == 24 {
		width = 3
		scale = 8388608
	}
	stride := width * channels
	if stride == 0 {
		return nil
	}
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		off := i * stride
		l := float64(pcmSample(data[off:], width)) / scale
		r := l
		if channels > 1 {
			r = float64(pcmSample(data[off+width:], width)) / scale
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

func pcmSample(b []byte, width int) int32 {
	if width == 2 {
		return int32(int16(uint16(b[0]) | uint16(b[1])<<8))
	}
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	return v
}
