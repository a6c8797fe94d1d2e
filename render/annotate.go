package render

import (
	"image"

	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotate draws a text label onto the bottom-left corner of a rendered
// frame, typically the compound's name. ttf holds a TrueType font; nil falls
// back to the builtin fixed-width face.
func Annotate(img *image.RGBA, label string, ttf []byte) error {
	if label == "" {
		return nil
	}
	b := img.Bounds()
	if ttf == nil {
		d := font.Drawer{
			Dst:  img,
			Src:  image.White,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(b.Min.X+8, b.Max.Y-8),
		}
		d.DrawString(label)
		return nil
	}
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return err
	}
	const size = 14
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetClip(b)
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	_, err = ctx.DrawString(label, freetype.Pt(b.Min.X+8, b.Max.Y-8))
	return err
}
