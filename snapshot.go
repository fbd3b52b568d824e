package sparks

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	snapshotBackground = color.RGBA{8, 8, 16, 255}
	snapshotLabel      = color.RGBA{230, 230, 230, 255}
)

// RenderSnapshot projects the live particles of ps top-down onto the XZ plane
// of a size x size image. The view is fitted to the farthest live particle.
// Brighter pixels hold more particles.
func RenderSnapshot(ps *ParticleSystem, size int, label string) *image.RGBA {
	if size <= 0 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{snapshotBackground}, image.Point{}, draw.Src)

	extent := float32(0)
	count := ps.Count()
	for i := 0; i < count; i++ {
		if ps.Buffer().At(i).Dead() {
			continue
		}
		p := ps.WorldPosition(i)
		extent = max(extent, abs32(p.X()), abs32(p.Z()))
	}

	if extent > 0 {
		density := make([]int, size*size)
		peak := 0
		half := float32(size) / 2
		for i := 0; i < count; i++ {
			if ps.Buffer().At(i).Dead() {
				continue
			}
			p := ps.WorldPosition(i)
			x := int(half + p.X()/extent*(half-1))
			y := int(half + p.Z()/extent*(half-1))
			if x < 0 || y < 0 || x >= size || y >= size {
				continue
			}
			density[y*size+x]++
			peak = max(peak, density[y*size+x])
		}
		logPeak := math.Log1p(float64(peak))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d := density[y*size+x]
				if d == 0 {
					continue
				}
				v := uint8(64 + 191*math.Log1p(float64(d))/logPeak)
				img.SetRGBA(x, y, color.RGBA{v, v / 2, 255 - v/2, 255})
			}
		}
	}

	if label != "" {
		drawLabel(img, label)
	}
	return img
}

func drawLabel(img *image.RGBA, label string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(snapshotLabel),
		Face: face,
		Dot:  fixed.P(4, face.Metrics().Ascent.Ceil()+2),
	}
	d.DrawString(label)
}

// WriteSnapshotPNG encodes img to path.
func WriteSnapshotPNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode snapshot %s: %w", path, err)
	}
	return file.Close()
}

// SnapshotLabel is the title line the demo window used to show.
func SnapshotLabel(ps *ParticleSystem, fps float64) string {
	name := "none"
	if k := ps.Kernel(); k != nil {
		name = k.Name()
	}
	return fmt.Sprintf("%s  %d/%d alive  %.0f fps", name, ps.Alive(), ps.Count(), fps)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
