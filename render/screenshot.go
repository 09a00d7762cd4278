package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// WriteImage encodes img to path, choosing the format purely by the
// file extension: .png, .jpg/.jpeg, .tif/.tiff or .bmp.
func WriteImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// Screenshot writes the most recently rendered image.
func (p *Pipeline) Screenshot(path string) error {
	if p.lastImage == nil {
		return fmt.Errorf("nothing rendered yet")
	}
	return WriteImage(p.lastImage, path)
}
