package tags

import (
	"strings"

	goflac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
)

// readFLAC reads the Vorbis comment block of a FLAC file directly.
func readFLAC(path string) (Tag, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return Tag{}, err
	}
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return Tag{}, err
		}
		first := func(keys ...string) string {
			for _, k := range keys {
				if v, err := cmts.Get(k); err == nil && len(v) > 0 {
					return v[0]
				}
			}
			return ""
		}
		return Tag{
			Title:  first(flacvorbis.FIELD_TITLE),
			Artist: first(flacvorbis.FIELD_ARTIST, "ALBUMARTIST"),
			Album:  first(flacvorbis.FIELD_ALBUM),
		}, nil
	}
	return Tag{}, ErrNoTags
}

// flacCover returns the front cover picture block of a FLAC file, or the
// first picture when none is marked as front cover.
func flacCover(path string) ([]byte, string, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, "", err
	}
	var data []byte
	var mime string
	for _, meta := range f.Meta {
		if meta.Type != goflac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
		if err != nil {
			continue
		}
		if data == nil || pic.PictureType == flacpicture.PictureTypeFrontCover {
			data, mime = pic.ImageData, pic.MIME
		}
		if pic.PictureType == flacpicture.PictureTypeFrontCover {
			break
		}
	}
	return data, mimeExt(mime), nil
}

func mimeExt(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	default:
		return "jpg"
	}
}
