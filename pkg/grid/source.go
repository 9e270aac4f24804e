package grid

import (
	"image"

	"librarysquare/internal/imageio"
)

// Source is one captured image waiting to be assigned
type Source interface {
	Name() string
	Open() (image.Image, error)
}

// FileSource is an image file on disk
type FileSource string

// Name returns the file path
func (f FileSource) Name() string {
	return string(f)
}

// Open decodes the file
func (f FileSource) Open() (image.Image, error) {
	return imageio.Load(string(f))
}

// FileSources lists the JPEG images of dir, sorted by name
func FileSources(dir string) ([]Source, error) {
	paths, err := imageio.Glob(dir, "*.jpg")
	if err != nil {
		return nil, err
	}
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = FileSource(p)
	}
	return sources, nil
}
