// Implements a PDF sink for rasterized scenes,
// by wrapping github.com/go-pdf/fpdf.
package svgpdf

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
)

const imageName = "scene"

// Write writes a one page PDF document showing `img`.
// The page has the size of the image, one pixel
// being mapped to one point.
func Write(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	if bounds.Empty() {
		return errors.New("can't write an empty image to PDF")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	width, height := float64(bounds.Dx()), float64(bounds.Dy())
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("psvg", true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "png", ReadDpi: false}
	pdf.RegisterImageOptionsReader(imageName, opts, &buf)
	pdf.ImageOptions(imageName, 0, 0, width, height, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
