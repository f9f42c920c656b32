package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Skryldev/imagegraph"
	"github.com/Skryldev/imagegraph/codec"
	"github.com/Skryldev/imagegraph/codec/decoder"
	"github.com/Skryldev/imagegraph/codec/encoder"
	"github.com/Skryldev/imagegraph/config"
	"github.com/Skryldev/imagegraph/debugdump"
	"github.com/Skryldev/imagegraph/hooks"
	"github.com/Skryldev/imagegraph/nodedef"
	"github.com/Skryldev/imagegraph/render"
)

func main() {
	cfg := config.Default()
	cfg.WorkerCount = 4
	cfg.DefaultQuality = 85
	cfg.JobTimeout = 30 * time.Second
	cfg.Recording = config.RecordingConfig{Enabled: true, Dir: "./debug-out"}

	reg := codec.NewMapRegistry()
	decoder.RegisterAll(reg)
	encoder.RegisterAll(reg)

	logger := hooks.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	logHook := hooks.NewLoggingHook(logger)

	proc := imagegraph.NewProcessor(cfg, reg, render.Default{})
	proc.Start()
	defer proc.Stop()

	raw := readSourceOrSynthesize("./profile.jpg")

	fmt.Println("── Example 1: Scale + re-encode as JPEG")
	ctx, err := proc.Process(func(c *imagegraph.Context) error {
		c.WithNodeHook(logHook)
		if cfg.Recording.Enabled {
			if rec, err := debugdump.New(cfg.Recording.Dir, c.Job().ID); err == nil {
				c.WithRecorder(rec)
			}
		}
		if err := c.AddInputBuffer(1, raw, imagegraph.LifetimeOutlivesFunctionCall); err != nil {
			return err
		}
		if err := c.AddOutputBuffer(2); err != nil {
			return err
		}
		decodeNode, err := c.Decode(1)
		if err != nil {
			return err
		}
		scaled, err := c.Scale(decodeNode, 800, 600, nodedef.FilterLanczos3)
		if err != nil {
			return err
		}
		_, err = c.Encode(scaled, 2, codec.FormatJPEG, cfg.DefaultQuality)
		return err
	})
	mustNoErr(err)
	printOutput(ctx, 2)
	ctx.Close()

	fmt.Println("── Example 2: Crop + rotate90 + flip + re-encode as PNG")
	ctx2, err := proc.Process(func(c *imagegraph.Context) error {
		if err := c.AddInputBuffer(1, raw, imagegraph.LifetimeOutlivesFunctionCall); err != nil {
			return err
		}
		if err := c.AddOutputBuffer(2); err != nil {
			return err
		}
		decodeNode, err := c.Decode(1)
		if err != nil {
			return err
		}
		cropped, err := c.Crop(decodeNode, 0, 0, 400, 400)
		if err != nil {
			return err
		}
		rotated, err := c.Rotate90(cropped)
		if err != nil {
			return err
		}
		flipped, err := c.FlipHorizontal(rotated)
		if err != nil {
			return err
		}
		_, err = c.Encode(flipped, 2, codec.FormatPNG, 0)
		return err
	})
	mustNoErr(err)
	printOutput(ctx2, 2)
	ctx2.Close()

	fmt.Println("── Example 3: Batch of three independent graphs")
	builds := make([]imagegraph.BuildFunc, 3)
	for i := range builds {
		width := 200 * (i + 1)
		builds[i] = func(c *imagegraph.Context) error {
			if err := c.AddInputBuffer(1, raw, imagegraph.LifetimeOutlivesFunctionCall); err != nil {
				return err
			}
			if err := c.AddOutputBuffer(2); err != nil {
				return err
			}
			decodeNode, err := c.Decode(1)
			if err != nil {
				return err
			}
			scaled, err := c.Scale(decodeNode, width, width, nodedef.FilterLinear)
			if err != nil {
				return err
			}
			_, err = c.Encode(scaled, 2, codec.FormatJPEG, 80)
			return err
		}
	}
	ctxs, errs := proc.Batch(builds)
	for i, e := range errs {
		mustNoErr(e)
		printOutput(ctxs[i], 2)
		ctxs[i].Close()
	}

	processed, errCount := proc.Stats()
	fmt.Printf("\nTotal processed: %d  Errors: %d\n", processed, errCount)
}

func mustNoErr(err error) {
	if err != nil {
		log.Fatalf("error: %v", err)
	}
}

func printOutput(c *imagegraph.Context, ioID int32) {
	buf, err := c.GetOutputBufferByID(ioID)
	mustNoErr(err)
	fmt.Printf("  %d bytes\n", len(buf))
}

func readSourceOrSynthesize(path string) []byte {
	if raw, err := os.ReadFile(path); err == nil {
		return raw
	}
	img := image.NewRGBA(image.Rect(0, 0, 1024, 768))
	for y := 0; y < 768; y++ {
		for x := 0; x < 1024; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / 1024), G: uint8(y * 255 / 768), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92})
	return buf.Bytes()
}
