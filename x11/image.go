package x11

import (
	"image"
	"image/color"
	"math/bits"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// putImageHeader is the size of a PutImage request without its data.
const putImageHeader = 24

// rowsPerRequest returns how many rows of rowBytes each fit in one PutImage
// request when the server accepts at most maxWords 4-byte units.
func rowsPerRequest(maxWords uint16, rowBytes int) int {
	if rowBytes <= 0 {
		return 0
	}
	return (int(maxWords)*4 - putImageHeader) / rowBytes
}

// zPixmap converts img to 32 bits per pixel ZPixmap data in the server's
// image byte order. The padding byte is zero.
func zPixmap(img image.Image, order ByteOrder) []byte {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	out := make([]byte, 4*b.Dx()*b.Dy())
	px := rgba.Pix[:len(out)]
	for i := 0; i < len(out); i += 4 {
		r, g, bl := px[i], px[i+1], px[i+2]
		if order == ByteOrderLSBFirst {
			out[i], out[i+1], out[i+2] = bl, g, r
		} else {
			out[i+1], out[i+2], out[i+3] = r, g, bl
		}
	}
	return out
}

// scaleImage resamples img to size.
func scaleImage(img image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// pixelOf maps col to a pixel value of visual. Visuals without channel masks
// are assumed to be 24-bit RGB.
func pixelOf(v VisualType, col color.Color) uint32 {
	r, g, b, _ := col.RGBA()
	if v.RedMask == 0 || v.GreenMask == 0 || v.BlueMask == 0 {
		return r>>8<<16 | g>>8<<8 | b>>8
	}
	return channel(r, v.RedMask) | channel(g, v.GreenMask) | channel(b, v.BlueMask)
}

// channel places a 16-bit color component into the bits of mask.
func channel(c, mask uint32) uint32 {
	width := bits.OnesCount32(mask)
	if width > 16 {
		width = 16
	}
	return (c >> (16 - width) << bits.TrailingZeros32(mask)) & mask
}

// DrawImage uploads img with its top left corner at at. Uploads larger than
// one request are split into bands of whole rows.
func (dc *DrawingContext) DrawImage(img image.Image, at image.Point) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	f, ok := dc.c.Setup.Format(dc.depth)
	if !ok || f.BitsPerPixel != 32 {
		return errors.Errorf("x11: cannot upload images to depth %d", dc.depth)
	}
	rowBytes := 4 * b.Dx()
	rows := rowsPerRequest(dc.c.Setup.MaximumRequestLength, rowBytes)
	if rows == 0 {
		return errors.Wrapf(ErrRequestTooLarge, "image row of %d pixels", b.Dx())
	}
	data := zPixmap(img, dc.c.Setup.ImageByteOrder)
	for y := 0; y < b.Dy(); y += rows {
		n := rows
		if b.Dy()-y < n {
			n = b.Dy() - y
		}
		err := dc.c.PutImage(ImageFormatZPixmap, dc.drawable, dc.gc, uint16(b.Dx()), uint16(n),
			int16(at.X), int16(at.Y+y), 0, dc.depth, data[y*rowBytes:(y+n)*rowBytes])
		if err != nil {
			return err
		}
	}
	return nil
}

// DrawImageScaled draws img stretched to fill dst.
func (dc *DrawingContext) DrawImageScaled(img image.Image, dst image.Rectangle) error {
	if dst.Empty() {
		return nil
	}
	if img.Bounds().Size() == dst.Size() {
		return dc.DrawImage(img, dst.Min)
	}
	return dc.DrawImage(scaleImage(img, dst.Size()), dst.Min)
}
