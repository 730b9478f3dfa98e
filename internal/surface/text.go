package surface

import (
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	fontOnce  sync.Once
	regular   *opentype.Font
	facesMu   sync.Mutex
	faceCache = map[int]font.Face{}
)

// FaceFor returns a cached Go Regular face at the given pixel size. It falls
// back to basicfont when the embedded font cannot be parsed.
func FaceFor(sizePx float64) font.Face {
	px := int(math.Round(sizePx))
	if px < 6 {
		px = 6
	}

	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("[SURFACE] Failed to parse goregular: %v", err)
			return
		}
		regular = f
	})
	if regular == nil {
		return basicfont.Face7x13
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faceCache[px]; ok {
		return face
	}
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: float64(px), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("[SURFACE] Failed to build %dpx face: %v", px, err)
		return basicfont.Face7x13
	}
	faceCache[px] = face
	return face
}

// DrawText renders text with its baseline starting at the given point and
// returns the pixel bounds it touched.
func (r *Raster) DrawText(text string, at r2.Vec, sizePx float64, c color.Color) image.Rectangle {
	if text == "" {
		return image.Rectangle{}
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: FaceFor(sizePx),
		Dot:  fixed.P(int(math.Round(at.X)), int(math.Round(at.Y))),
	}
	bounds, _ := d.BoundString(text)
	d.DrawString(text)
	return image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())
}
