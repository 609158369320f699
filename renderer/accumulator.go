package renderer

import (
	"image"

	"github.com/fralonra/Shape-Z-sub000/types"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Accumulator keeps the running per pixel average of progressive samples in
// linear space. Writes to distinct pixels may happen concurrently.
type Accumulator struct {
	frameW, frameH uint32
	pixels         []types.Vec4
}

func NewAccumulator(frameW, frameH uint32) *Accumulator {
	return &Accumulator{
		frameW: frameW,
		frameH: frameH,
		pixels: make([]types.Vec4, int(frameW)*int(frameH)),
	}
}

func (a *Accumulator) Width() uint32 {
	return a.frameW
}

func (a *Accumulator) Height() uint32 {
	return a.frameH
}

// Blend sample into the pixel with weight 1/(iteration+1). Iteration 0
// overwrites whatever the pixel held.
func (a *Accumulator) Accumulate(x, y uint32, sample types.Vec4, iteration uint32) {
	if x >= a.frameW || y >= a.frameH {
		return
	}
	idx := y*a.frameW + x
	w := 1 / float32(iteration+1)
	a.pixels[idx] = a.pixels[idx].Mul(1 - w).Add(sample.Mul(w))
}

// Get the accumulated value of a pixel.
func (a *Accumulator) Pixel(x, y uint32) types.Vec4 {
	if x >= a.frameW || y >= a.frameH {
		return types.Vec4{}
	}
	return a.pixels[y*a.frameW+x]
}

// Clear all pixels.
func (a *Accumulator) Reset() {
	for i := range a.pixels {
		a.pixels[i] = types.Vec4{}
	}
}

// Convert the accumulated linear colors to an sRGB image.
func (a *Accumulator) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(a.frameW), int(a.frameH)))
	for y := uint32(0); y < a.frameH; y++ {
		for x := uint32(0); x < a.frameW; x++ {
			px := a.pixels[y*a.frameW+x]
			r, g, b := colorful.LinearRgb(float64(px[0]), float64(px[1]), float64(px[2])).Clamped().RGB255()
			off := img.PixOffset(int(x), int(y))
			img.Pix[off] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = uint8(types.Clamp(px[3], 0, 1)*255 + 0.5)
		}
	}
	return img
}
