package analyzer

import (
	"image"
	"image/draw"
	"math"
)

// IntensityImage is a single-channel intensity grid in the 0..255 range.
// It is created once per run during preprocessing and never mutated
// afterwards; every pipeline stage reads from the same instance.
type IntensityImage struct {
	width  int
	height int
	pix    []float64
}

// NewIntensityImage converts img to grayscale, applies a Gaussian blur with
// the given kernel size and returns the result. Even kernel sizes are
// widened by one; sizes below 3 disable the blur.
func NewIntensityImage(img image.Image, kernelSize int) *IntensityImage {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	w, h := bounds.Dx(), bounds.Dy()
	m := &IntensityImage{width: w, height: h, pix: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := 0; x < w; x++ {
			m.pix[y*w+x] = float64(row[x])
		}
	}

	if kernelSize >= 3 {
		if kernelSize%2 == 0 {
			kernelSize++
		}
		m.blur(kernelSize)
	}
	return m
}

// Width returns the image width in pixels.
func (m *IntensityImage) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *IntensityImage) Height() int { return m.height }

// At returns the intensity at integer pixel coordinates, clamped to the
// image bounds.
func (m *IntensityImage) At(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= m.width {
		x = m.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= m.height {
		y = m.height - 1
	}
	return m.pix[y*m.width+x]
}

// Bilinear samples the intensity at a non-integer position using bilinear
// interpolation, clamping to the image bounds.
func (m *IntensityImage) Bilinear(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	v00 := m.At(x0, y0)
	v10 := m.At(x0+1, y0)
	v01 := m.At(x0, y0+1)
	v11 := m.At(x0+1, y0+1)

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

// blur applies a separable Gaussian filter in place. Sigma follows the
// usual kernel-size heuristic so that configuring only the size behaves
// like common image libraries.
func (m *IntensityImage) blur(kernelSize int) {
	radius := kernelSize / 2
	sigma := 0.3*(float64(kernelSize-1)*0.5-1) + 0.8

	kernel := make([]float64, kernelSize)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	tmp := make([]float64, len(m.pix))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * m.At(x+k, y)
			}
			tmp[y*m.width+x] = acc
		}
	}
	copy(m.pix, tmp)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				yy := y + k
				if yy < 0 {
					yy = 0
				} else if yy >= m.height {
					yy = m.height - 1
				}
				acc += kernel[k+radius] * tmp[yy*m.width+x]
			}
			m.pix[y*m.width+x] = acc
		}
	}
}

// usableRadius is the largest radius fully contained in the image when
// sampling rays from (cx, cy).
func (m *IntensityImage) usableRadius(cx, cy float64) int {
	r := math.Min(math.Min(cx, cy), math.Min(float64(m.width-1)-cx, float64(m.height-1)-cy))
	if r < 0 {
		return 0
	}
	return int(r)
}
