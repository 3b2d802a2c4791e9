package svgraster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/psvg/svgpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned when the output format
// can't be deduced from a file name.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output file format.
type Format uint8

const (
	PNG Format = iota
	BMP
	TIFF
	PDF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	case PDF:
		return "pdf"
	default:
		return "<unknown Format>"
	}
}

// FormatFromPath returns the format matching the
// extension of `path`.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".pdf":
		return PDF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Encode writes `img` to `w` in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case PDF:
		return svgpdf.Write(w, img)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Save writes `img` to the file `path`, whose
// extension selects the format.
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
