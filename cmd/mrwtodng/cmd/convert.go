package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bruceg/dngutils/pkg/dng"
)

func newConvertCmd(ctx context.Context) *cobra.Command {
	opts := dng.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "convert <source.mrw> <dest.dng>",
		Short: "convert one MRW file into a DNG file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(ctx, args[0], args[1], opts)
		},
	}

	// -h is claimed by --tile-height below, following the CLI contract's
	// two independent tile flags, so suppress cobra's usual -h shorthand
	// for --help on this subcommand.
	cmd.Flags().BoolP("help", "", false, "help for convert")

	pf := cmd.Flags()
	pf.BoolVar(&opts.Compress, "compress", opts.Compress, "lossless-JPEG compress the raw sensor data")
	pf.Bool("no-compress", !opts.Compress, "store the raw sensor data uncompressed (overrides --compress)")
	pf.BoolVar(&opts.Tile, "tile", opts.Tile, "store the raw sensor data as tiles instead of a single strip")
	pf.Bool("no-tile", !opts.Tile, "store the raw sensor data as a single strip (overrides --tile)")
	pf.IntVarP(&opts.TileWidth, "tile-width", "w", opts.TileWidth, "tile width in samples (minimum 16)")
	pf.IntVarP(&opts.TileHeight, "tile-height", "h", opts.TileHeight, "tile height in samples (minimum 16)")
	pf.BoolVar(&opts.MultiTable, "multi-table", opts.MultiTable, "build one Huffman table per sample lane instead of sharing one")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if noCompress, _ := pf.GetBool("no-compress"); noCompress {
			opts.Compress = false
		}
		if noTile, _ := pf.GetBool("no-tile"); noTile {
			opts.Tile = false
		}
		if err := opts.Validate(); err != nil {
			return err
		}
		return runConvert(ctx, args[0], args[1], opts)
	}

	return cmd
}

func runConvert(ctx context.Context, srcPath, dstPath string, opts dng.Options) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", dng.ErrIO, srcPath, err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", dng.ErrIO, dstPath, err)
	}
	defer dst.Close()

	if err := dng.Convert(ctx, nil, src, dst, srcPath, opts); err != nil {
		return err
	}
	return dst.Close()
}
