package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	//go:embed assets/arena.svg
	arenaSVG []byte
	//go:embed assets/body.svg
	bodySVG []byte
	//go:embed assets/glove.svg
	gloveSVG []byte
)

// Sprites holds the rasterised artwork. Body and glove are white so they can be
// tinted with the player colour.
type Sprites struct {
	Arena *ebiten.Image
	Body  *ebiten.Image
	Glove *ebiten.Image
}

// LoadSprites rasterises the embedded SVGs
func LoadSprites(logger *slog.Logger) (*Sprites, error) {
	arena, err := svgToImage(arenaSVG, 800, 800)
	if err != nil {
		return nil, fmt.Errorf("arena sprite: %w", err)
	}
	body, err := svgToImage(bodySVG, 128, 128)
	if err != nil {
		return nil, fmt.Errorf("body sprite: %w", err)
	}
	glove, err := svgToImage(gloveSVG, 64, 64)
	if err != nil {
		return nil, fmt.Errorf("glove sprite: %w", err)
	}

	if os.Getenv("DEBUG_SPRITES") == "1" {
		saveDebugPNG(logger, arena, "debug_arena.png")
		saveDebugPNG(logger, body, "debug_body.png")
		saveDebugPNG(logger, glove, "debug_glove.png")
	}

	return &Sprites{
		Arena: ebiten.NewImageFromImage(arena),
		Body:  ebiten.NewImageFromImage(body),
		Glove: ebiten.NewImageFromImage(glove),
	}, nil
}

// svgToImage rasterises SVG data at the given size
func svgToImage(svgData []byte, width, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// saveDebugPNG writes a rasterised sprite next to the binary
func saveDebugPNG(logger *slog.Logger, img image.Image, filename string) {
	f, err := os.Create(filename)
	if err != nil {
		logger.Warn("create debug png", slog.String("file", filename), slog.Any("error", err))
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		logger.Warn("encode debug png", slog.String("file", filename), slog.Any("error", err))
	}
}
