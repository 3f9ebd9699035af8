package tags

import "github.com/Sorrow446/go-mp4tag"

// readMP4 reads the iTunes-style atoms of an MP4 container.
func readMP4(path string) (Tag, error) {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return Tag{}, err
	}
	defer mp4.Close()

	t, err := mp4.Read()
	if err != nil {
		return Tag{}, err
	}
	artist := t.Artist
	if artist == "" {
		artist = t.AlbumArtist
	}
	return Tag{Title: t.Title, Artist: artist, Album: t.Album}, nil
}
