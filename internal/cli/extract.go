package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ironsheep/colorthief/internal/imaging"
	"github.com/ironsheep/colorthief/internal/palette"
	"github.com/ironsheep/colorthief/internal/parallel"
)

// Output formats.
const (
	formatHex   = "hex"
	formatArray = "array"
	formatJSON  = "json"
)

// extractFlags are shared by the palette and color commands.
type extractFlags struct {
	quality      int
	format       string
	region       string
	maxDimension int
	workers      int
}

func (f *extractFlags) register(cmd *cobra.Command, a *app) {
	cmd.Flags().IntVarP(&f.quality, "quality", "q", a.cfg.Quality, "sampling stride: 1 reads every pixel, 10 about one in ten")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatHex, "output format (hex, array, json)")
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "sample only a named region (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center)")
	cmd.Flags().IntVar(&f.maxDimension, "max-dimension", 0, "downscale images so neither side exceeds this before sampling (0 = off)")
	cmd.Flags().IntVarP(&f.workers, "jobs", "j", 0, "number of images to process at once (default: number of CPUs)")
}

// options validates the flags and returns extraction options. JSON output
// uses the configured color type.
func (f *extractFlags) options(a *app) (palette.Options, error) {
	if err := a.checkDefaults(); err != nil {
		return palette.Options{}, err
	}

	var ct palette.ColorType
	switch f.format {
	case formatHex:
		ct = palette.ColorTypeHex
	case formatArray:
		ct = palette.ColorTypeArray
	case formatJSON:
		ct = a.cfg.Options().ColorType
	default:
		return palette.Options{}, fmt.Errorf("unsupported format: %s (supported: hex, array, json)", f.format)
	}

	if f.region != "" && !imaging.ValidQuadrant(f.region) {
		return palette.Options{}, fmt.Errorf("%w: unknown region %q", palette.ErrInvalidOption, f.region)
	}
	if f.maxDimension < 0 {
		return palette.Options{}, fmt.Errorf("%w: max-dimension must not be negative", palette.ErrInvalidOption)
	}

	return palette.Options{Quality: f.quality, ColorType: ct}, nil
}

// thief returns the extractor for the flags' region.
func (f *extractFlags) thief(a *app) *palette.Thief {
	loader := a.loader()
	if f.region != "" {
		return palette.New(imaging.QuadrantSource{Loader: loader, Name: f.region}, nil)
	}
	return palette.New(loader, nil)
}

// outcome is the result of one source.
type outcome struct {
	source string
	res    palette.Result
	err    error
}

// failed reports whether the source produced no result.
func (o outcome) failed() bool {
	return o.err != nil || !o.res.OK
}

func (o outcome) problem() error {
	if o.err != nil {
		return o.err
	}
	return o.res.Reason
}

type fetchFunc func(ctx context.Context, d palette.Descriptor) (palette.Result, error)

// run processes every source on a bounded pool. Outcomes keep input order.
func (a *app) run(ctx context.Context, in io.Reader, sources []string, f *extractFlags, fetch fetchFunc) ([]outcome, error) {
	var stdin []byte
	for _, src := range sources {
		if src == "-" {
			data, err := io.ReadAll(in)
			if err != nil {
				return nil, fmt.Errorf("failed to read standard input: %w", err)
			}
			stdin = data
			break
		}
	}

	outcomes := make([]outcome, len(sources))
	parallel.Map(f.workers, len(sources), func(i int) {
		d := palette.Descriptor{Location: sources[i], MaxDimension: f.maxDimension}
		if sources[i] == "-" {
			d = palette.Descriptor{Buffer: stdin, MaxDimension: f.maxDimension}
		}

		res, err := fetch(ctx, d)
		outcomes[i] = outcome{source: sources[i], res: res, err: err}

		switch {
		case err != nil:
			a.logger.Error("extraction failed", "source", sources[i], "error", err)
		case !res.OK:
			a.logger.Warn("image not read", "source", sources[i], "reason", res.Reason)
		default:
			a.logger.Debug("extracted", "source", sources[i], "colors", len(res.Palette))
		}
	})

	return outcomes, nil
}

// summarize turns per-source failures into the command's error.
func summarize(outcomes []outcome) error {
	var failed int
	var first error
	for _, o := range outcomes {
		if o.failed() {
			failed++
			if first == nil {
				first = fmt.Errorf("%s: %w", o.source, o.problem())
			}
		}
	}
	switch {
	case failed == 0:
		return nil
	case len(outcomes) == 1:
		return first
	default:
		return fmt.Errorf("%d of %d sources failed: %w", failed, len(outcomes), first)
	}
}

func (a *app) newPaletteCmd() *cobra.Command {
	var (
		f     extractFlags
		count int
	)

	cmd := &cobra.Command{
		Use:   "palette [flags] SOURCE...",
		Short: "Extract a color palette from images",
		Long: `Extract a palette of representative colors from one or more images.

Colors are printed largest cluster first, one line per image. An image with
fewer distinct colors than requested yields a shorter palette.

Examples:
  # Ten colors (default) as hex
  colorthief palette wallpaper.jpg

  # Six colors from every pixel, as RGB triples
  colorthief palette -c 6 -q 1 -f array logo.png

  # Several images at once, as JSON
  colorthief palette -f json a.png b.jpg https://example.com/c.webp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(a)
			if err != nil {
				return err
			}
			n, opts, err := palette.Validate(count, opts)
			if err != nil {
				return err
			}

			thief := f.thief(a)
			outcomes, err := a.run(cmd.Context(), cmd.InOrStdin(), args, &f, func(ctx context.Context, d palette.Descriptor) (palette.Result, error) {
				return thief.FetchPalette(ctx, d, n, opts)
			})
			if err != nil {
				return err
			}

			if err := writePalettes(cmd.OutOrStdout(), f.format, opts.ColorType, outcomes); err != nil {
				return err
			}
			return summarize(outcomes)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", a.cfg.ColorCount, fmt.Sprintf("number of colors (%d-%d)", palette.MinColorCount, palette.MaxColorCount))
	f.register(cmd, a)
	return cmd
}

func (a *app) newColorCmd() *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "color [flags] SOURCE...",
		Short: "Print the dominant color of images",
		Long: `Print the single dominant color of one or more images: the largest
cluster of a five-color palette. Images with no opaque, non-white pixels
print "none".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(a)
			if err != nil {
				return err
			}
			if _, opts, err = palette.Validate(palette.DominantColorCount, opts); err != nil {
				return err
			}

			thief := f.thief(a)
			outcomes, err := a.run(cmd.Context(), cmd.InOrStdin(), args, &f, func(ctx context.Context, d palette.Descriptor) (palette.Result, error) {
				return thief.FetchColor(ctx, d, opts)
			})
			if err != nil {
				return err
			}

			if err := writeColors(cmd.OutOrStdout(), f.format, opts.ColorType, outcomes); err != nil {
				return err
			}
			return summarize(outcomes)
		},
	}

	f.register(cmd, a)
	return cmd
}
