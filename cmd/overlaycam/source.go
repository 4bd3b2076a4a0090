package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/vova616/screenshot"
)

// frameSource yields frames for the processing loop.
type frameSource interface {
	// Next returns the next frame, or io.EOF once the source is exhausted.
	Next() (image.Image, error)
	Close() error
}

func (cmd *RunCmd) newSource() (frameSource, error) {
	switch cmd.Source {
	case "dir":
		if cmd.Frames == "" {
			return nil, fmt.Errorf("--source=dir requires --frames")
		}
		return newDirSource(cmd.Frames)
	default:
		return screenSource{}, nil
	}
}

// screenSource grabs the active monitor.
type screenSource struct{}

func (screenSource) Next() (image.Image, error) {
	return screenshot.CaptureScreen()
}

func (screenSource) Close() error { return nil }

// dirSource replays a directory of still images in filename order.
type dirSource struct {
	files []string
	idx   int
}

func newDirSource(dir string) (*dirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	s := &dirSource{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
			s.files = append(s.files, filepath.Join(dir, e.Name()))
		}
	}
	if len(s.files) == 0 {
		return nil, fmt.Errorf("no frame images in %s", dir)
	}
	return s, nil
}

func (s *dirSource) Next() (image.Image, error) {
	if s.idx >= len(s.files) {
		return nil, io.EOF
	}
	path := s.files[s.idx]
	s.idx++
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func (s *dirSource) Close() error { return nil }
