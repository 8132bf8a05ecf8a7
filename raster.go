package main

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// BaseResolution is the reference raster width. UI-facing sizes (font
// size, spacings) are defined against this width and rescaled by
// resolution/BaseResolution, so parameter ranges stay the same whatever
// the heightmap resolution.
const BaseResolution = 1024

// The embedded Go font family keeps rasterization deterministic: no
// system font lookup, same bytes everywhere.
var fontTTF = map[string][]byte{
	"regular":   goregular.TTF,
	"bold":      gobold.TTF,
	"italic":    goitalic.TTF,
	"medium":    gomedium.TTF,
	"mono":      gomono.TTF,
	"smallcaps": gosmallcaps.TTF,
}

func lookupFont(name string) ([]byte, error) {
	if ttf, ok := fontTTF[name]; ok {
		return ttf, nil
	}
	names := make([]string, 0, len(fontTTF))
	for n := range fontTTF {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unrecognised font %q (have %v)", name, names)
}

// Rasterize renders the configured pattern into a fresh heightmap. The
// background is minimum intensity; the pattern is stamped tile by tile
// over a grid one tile larger than the raster on every side, each tile
// rotated about its own center by the tilt angle. Asset loading (the
// image file) is the only suspension point; the context is checked
// after it.
func Rasterize(ctx context.Context, cfg Config) (*Heightmap, error) {
	cfg = cfg.normalized()
	hm := NewHeightmap(cfg.Resolution, cfg.Resolution)
	scale := float64(cfg.Resolution) / BaseResolution

	var (
		tile         *image.Alpha
		tileW, tileH float64
		err          error
	)
	switch cfg.Kind {
	case PatternImage:
		tile, tileW, tileH, err = imageTile(cfg, scale)
	default:
		tile, tileW, tileH, err = textTile(cfg, scale)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blurAlpha(tile, blurRadius(scale))
	stampTiles(hm.Canvas(), tile, tileW, tileH, cfg.Tilt, cfg.Quiet)

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "Rasterized %s pattern at %dx%d.\n", cfg.Kind, hm.w, hm.h)
	}
	return hm, nil
}

// textTile renders one glyph run into a tile buffer sized to the tile
// period. The measured run advance sets the horizontal period; the
// scaled font size plus vertical spacing sets the vertical period.
func textTile(cfg Config, scale float64) (*image.Alpha, float64, float64, error) {
	ttf, err := lookupFont(cfg.Font)
	if err != nil {
		return nil, 0, 0, err
	}
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("parse font %s: %w", cfg.Font, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    cfg.FontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("font face %s: %w", cfg.Font, err)
	}
	defer face.Close()

	spacing := fixed.Int26_6(math.Round(cfg.LetterSpacing * scale * 64))
	adv := runAdvance(face, cfg.Text, spacing)

	tileW := math.Max(1, float64(adv)/64+cfg.SpacingX*scale)
	tileH := math.Max(1, cfg.FontSize*scale+cfg.SpacingY*scale)

	tile := image.NewAlpha(image.Rect(0, 0, int(math.Ceil(tileW)), int(math.Ceil(tileH))))

	metrics := face.Metrics()
	baseline := tileH/2 + float64(metrics.Ascent-metrics.Descent)/(2*64)
	d := font.Drawer{
		Dst:  tile,
		Src:  image.White,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round((tileW - float64(adv)/64) / 2 * 64)),
			Y: fixed.Int26_6(math.Round(baseline * 64)),
		},
	}
	first := true
	for _, r := range cfg.Text {
		if !first {
			d.Dot.X += spacing
		}
		d.DrawString(string(r))
		first = false
	}

	return tile, tileW, tileH, nil
}

// runAdvance measures the glyph run the same way textTile draws it:
// glyph advances plus letter spacing between runes, no kerning.
func runAdvance(face font.Face, text string, spacing fixed.Int26_6) fixed.Int26_6 {
	var adv fixed.Int26_6
	first := true
	for _, r := range text {
		a, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		if !first {
			adv += spacing
		}
		adv += a
		first = false
	}
	return adv
}

// imageTile loads the source bitmap and prepares its silhouette: the
// image is scaled into an alpha-only buffer half again as large as the
// draw size, which keeps only coverage and forces every covered pixel
// to full intensity when stamped. Interior pixels of anti-aliased or
// translucent art therefore fill in solid instead of staying grey.
func imageTile(cfg Config, scale float64) (*image.Alpha, float64, float64, error) {
	f, err := os.Open(cfg.ImagePath)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode %s: %w", cfg.ImagePath, err)
	}

	b := src.Bounds()
	drawW := math.Max(1, float64(b.Dx())*cfg.ImageScale*scale)
	drawH := math.Max(1, float64(b.Dy())*cfg.ImageScale*scale)

	bufW := int(math.Ceil(drawW * 1.5))
	bufH := int(math.Ceil(drawH * 1.5))
	tile := image.NewAlpha(image.Rect(0, 0, bufW, bufH))

	x0 := (float64(bufW) - drawW) / 2
	y0 := (float64(bufH) - drawH) / 2
	dr := image.Rect(int(x0), int(y0), int(x0+drawW), int(y0+drawH))
	draw.ApproxBiLinear.Scale(tile, dr, src, b, draw.Over, nil)

	tileW := drawW + cfg.SpacingX*scale
	tileH := drawH + cfg.SpacingY*scale
	return tile, math.Max(1, tileW), math.Max(1, tileH), nil
}

func blurRadius(scale float64) int {
	r := int(scale + 0.5)
	if r < 1 {
		r = 1
	}
	return r
}

// blurAlpha softens the tile with a separable box blur before stamping,
// so the displacement threshold downstream cuts through a ramp instead
// of a hard staircase edge.
func blurAlpha(img *image.Alpha, radius int) {
	if radius < 1 {
		return
	}
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}

	tmp := make([]uint8, len(img.Pix))
	window := 2*radius + 1

	// horizontal pass
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += int(rowAt(row, x))
		}
		for x := 0; x < w; x++ {
			tmp[y*w+x] = uint8(sum / window)
			sum += int(rowAt(row, x+radius+1)) - int(rowAt(row, x-radius))
		}
	}

	// vertical pass
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += int(colAt(tmp, w, h, x, y))
		}
		for y := 0; y < h; y++ {
			img.Pix[y*img.Stride+x] = uint8(sum / window)
			sum += int(colAt(tmp, w, h, x, y+radius+1)) - int(colAt(tmp, w, h, x, y-radius))
		}
	}
}

func rowAt(row []uint8, x int) uint8 {
	if x < 0 || x >= len(row) {
		return 0
	}
	return row[x]
}

func colAt(pix []uint8, w, h, x, y int) uint8 {
	if y < 0 || y >= h {
		return 0
	}
	return pix[y*w+x]
}

// stampTiles composites the tile across a grid of period tileW x tileH,
// overscanning by one tile on every side so rotated tiles never leave
// gaps at the raster edges. Each stamp rotates the tile about its own
// center before placing it; overlapping stamps accumulate with
// over-compositing, so white stays white.
func stampTiles(canvas *image.Alpha, tile *image.Alpha, tileW, tileH, tiltDeg float64, quiet bool) {
	w := float64(canvas.Rect.Dx())
	h := float64(canvas.Rect.Dy())

	sin, cos := math.Sincos(tiltDeg * math.Pi / 180)
	cx := float64(tile.Rect.Dx()) / 2
	cy := float64(tile.Rect.Dy()) / 2

	total := int((h+2*tileH)/tileH) + 1
	row := 0
	for gy := -tileH; gy < h+tileH; gy += tileH {
		for gx := -tileW; gx < w+tileW; gx += tileW {
			// place the tile center on the grid cell center, rotated in place
			tx := gx + tileW/2
			ty := gy + tileH/2
			m := f64.Aff3{
				cos, -sin, tx - cos*cx + sin*cy,
				sin, cos, ty - sin*cx - cos*cy,
			}
			draw.ApproxBiLinear.Transform(canvas, m, tile, tile.Bounds(), draw.Over, nil)
		}
		row++
		progressf(quiet, "   \rStamping tiles: %.0f%%", 100*float64(row)/float64(total))
	}
	progressf(quiet, "   \rStamping tiles: done\n")
}
