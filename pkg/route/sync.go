package route

import (
	"context"
	"encoding/csv"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"librarysquare/internal/imageio"
	"librarysquare/internal/models"
)

// RouteFile is the synchronised trajectory written next to the frames
const RouteFile = "route.csv"

// FrameQuality is the JPEG quality of extracted frames
const FrameQuality = 100

// FrameSource yields video frames at arbitrary positions
type FrameSource interface {
	// FrameAt returns the frame shown at t from the start of the video
	FrameAt(t time.Duration) (image.Image, error)
}

// Synchroniser writes one video frame per trajectory sample, together with
// the sample's pixel position
type Synchroniser struct {
	Source FrameSource

	// Offset is added to every sample time before seeking
	Offset time.Duration

	Bounds Bounds

	// OutDir receives <index>.jpg frames and RouteFile
	OutDir string

	Logger logrus.FieldLogger
}

// Run extracts a frame for every waypoint and writes the route file.
// It returns the number of frames written.
func (s *Synchroniser) Run(ctx context.Context, waypoints []models.Waypoint) (int, error) {
	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := os.MkdirAll(s.OutDir, 0755); err != nil {
		return 0, fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filepath.Join(s.OutDir, RouteFile))
	if err != nil {
		return 0, fmt.Errorf("error creating route file: %w", err)
	}
	defer file.Close()

	// rows written before a failure are kept
	out := csv.NewWriter(file)
	n, err := s.writeFrames(ctx, out, waypoints, logger)
	out.Flush()
	if err != nil {
		return n, err
	}
	if err := out.Error(); err != nil {
		return n, err
	}
	return n, file.Close()
}

func (s *Synchroniser) writeFrames(ctx context.Context, out *csv.Writer, waypoints []models.Waypoint, logger logrus.FieldLogger) (int, error) {
	for i, wp := range waypoints {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		frame, err := s.Source.FrameAt(wp.Time + s.Offset)
		if err != nil {
			return i, fmt.Errorf("waypoint %d: %w", i, err)
		}

		framePath := filepath.Join(s.OutDir, fmt.Sprintf("%d.jpg", i))
		if err := imageio.SaveJPEG(framePath, frame, FrameQuality); err != nil {
			return i, fmt.Errorf("waypoint %d: %w", i, err)
		}

		x, y := s.Bounds.Transform(wp.X, wp.Y)
		if err := out.Write([]string{
			strconv.FormatFloat(x, 'f', -1, 64),
			strconv.FormatFloat(y, 'f', -1, 64),
			framePath,
		}); err != nil {
			return i, fmt.Errorf("waypoint %d: %w", i, err)
		}

		logger.WithFields(logrus.Fields{
			"index": i,
			"time":  wp.Time,
			"x":     x,
			"y":     y,
		}).Debug("Wrote frame")
	}
	return len(waypoints), nil
}
