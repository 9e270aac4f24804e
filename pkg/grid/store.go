package grid

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"librarysquare/internal/imageio"
)

// Store persists cell images and the manifest of an assembly run
type Store interface {
	// Save writes img under name
	Save(name string, img image.Image) error

	// Load reads the image stored under name
	Load(name string) (image.Image, error)

	// Remove deletes the image stored under name
	Remove(name string) error

	// WriteManifest writes m as the run's manifest
	WriteManifest(m Manifest) error
}

// DirStore keeps cell images as JPEG files in a directory.
// The directory is created on first write.
type DirStore struct {
	Dir     string
	Quality int
}

// NewDirStore returns a store writing to dir with the given JPEG quality.
// A quality outside 1..100 selects the encoder default.
func NewDirStore(dir string, quality int) *DirStore {
	if quality < 1 || quality > 100 {
		quality = imageio.DefaultJPEGQuality
	}
	return &DirStore{Dir: dir, Quality: quality}
}

func (s *DirStore) ensureDir() error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	return nil
}

// Path returns the file path of name
func (s *DirStore) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Save writes img as a JPEG file
func (s *DirStore) Save(name string, img image.Image) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return imageio.SaveJPEG(s.Path(name), img, s.Quality)
}

// Load reads a stored image
func (s *DirStore) Load(name string) (image.Image, error) {
	return imageio.Load(s.Path(name))
}

// Remove deletes a stored image
func (s *DirStore) Remove(name string) error {
	return os.Remove(s.Path(name))
}

// WriteManifest writes m to ManifestFile
func (s *DirStore) WriteManifest(m Manifest) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	file, err := os.Create(s.Path(ManifestFile))
	if err != nil {
		return fmt.Errorf("error creating manifest: %w", err)
	}
	if err := m.WriteCSV(file); err != nil {
		file.Close()
		return fmt.Errorf("error writing manifest: %w", err)
	}
	return file.Close()
}

// ReadManifest reads the manifest stored in the directory
func (s *DirStore) ReadManifest(geom Geometry) (Manifest, error) {
	file, err := os.Open(s.Path(ManifestFile))
	if err != nil {
		return Manifest{}, err
	}
	defer file.Close()
	return ReadManifest(file, geom)
}
