package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Image is a decoded image asset.
type Image struct {
	Path string
	Data image.Image
	// Fallback is set when the file could not be loaded and Data is the
	// generated checkerboard.
	Fallback bool
}

const (
	checkerSize = 64
	checkerCell = 8
)

var (
	checkerLight = color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	checkerDark  = color.RGBA{A: 0xff}
)

// Checkerboard returns the magenta and black texture used in place of images
// that fail to load.
func Checkerboard() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, checkerSize, checkerSize))
	for y := range checkerSize {
		for x := range checkerSize {
			c := checkerDark
			if (x/checkerCell+y/checkerCell)%2 == 0 {
				c = checkerLight
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Server loads image files relative to a root directory into an Assets
// table. Loading never fails: a missing or undecodable file is logged and
// replaced with Checkerboard so the scene still renders.
type Server struct {
	root   string
	logger *zap.Logger
	images *Assets[Image]
}

// NewServer returns a server reading from root.
func NewServer(root string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		root:   root,
		logger: logger,
		images: New[Image](),
	}
}

// Images returns the table loaded images are stored in.
func (s *Server) Images() *Assets[Image] {
	return s.images
}

// Load reads the PNG at path. Repeated loads of the same path return the
// same handle without touching the disk again.
func (s *Server) Load(path string) Handle[Image] {
	h := HandleFor[Image](path)
	if s.images.Contains(h) {
		return h
	}

	data, err := s.decode(path)
	if err != nil {
		s.logger.Warn("image load failed, using fallback texture",
			zap.String("path", path),
			zap.String("root", s.root),
			zap.Error(err),
		)
		s.images.Insert(h, Image{Path: path, Data: Checkerboard(), Fallback: true})
		return h
	}

	s.logger.Debug("image loaded",
		zap.String("path", path),
		zap.Int("width", data.Bounds().Dx()),
		zap.Int("height", data.Bounds().Dy()),
	)
	s.images.Insert(h, Image{Path: path, Data: data})
	return h
}

func (s *Server) decode(path string) (image.Image, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return png.Decode(f)
}
