package preview

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Scale resizes img by factor with Catmull-Rom filtering. The result always
// has at least one pixel on each side.
func Scale(img image.Image, factor float64) *image.RGBA {
	src := img.Bounds()
	width := max(1, int(float64(src.Dx())*factor+0.5))
	height := max(1, int(float64(src.Dy())*factor+0.5))
	return ScaleTo(img, width, height)
}

// ScaleTo resizes img to exactly width x height
func ScaleTo(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Thumbnail scales img down so that its longer side is at most maxSize.
// Smaller images are returned unscaled as a copy.
func Thumbnail(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if longest <= maxSize {
		return ScaleTo(img, b.Dx(), b.Dy())
	}
	return Scale(img, float64(maxSize)/float64(longest))
}
