// Package cvio adapts OpenCV video decoding to the route synchroniser.
package cvio

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"
)

// VideoSource reads frames of a video file by timestamp
type VideoSource struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

// OpenVideo opens the video file at path
func OpenVideo(path string) (*VideoSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}
	return &VideoSource{capture: capture, frame: gocv.NewMat()}, nil
}

// FrameAt seeks to t and decodes the frame shown there
func (v *VideoSource) FrameAt(t time.Duration) (image.Image, error) {
	v.capture.Set(gocv.VideoCapturePosMsec, float64(t)/float64(time.Millisecond))

	if ok := v.capture.Read(&v.frame); !ok || v.frame.Empty() {
		return nil, fmt.Errorf("failed to read frame at %v", t)
	}

	img, err := v.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame at %v: %w", t, err)
	}
	return img, nil
}

// Close releases the decoder
func (v *VideoSource) Close() error {
	if err := v.frame.Close(); err != nil {
		return err
	}
	return v.capture.Close()
}
