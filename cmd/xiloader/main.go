// Command xiloader wraps the library's decode path in three
// subcommands: decode (decode and re-encode as PNG), info (decode and
// print dimensions), and probe (sniff the format from magic bytes
// only, without decoding).
//
// Grounded on svanichkin-babe's main.go (single-binary image
// convert-and-dump CLI) and HandmadeNetwork-hmn's src/admintools for
// the cobra.Command/AddCommand shape.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/8infy/xiloader"
	"github.com/8infy/xiloader/internal/xlog"
)

func main() {
	var (
		outPath          string
		forceFlip        bool
		preciseDownscale bool
		alwaysRGBA32     bool
		verbose          bool
		strict           bool
	)

	rootCommand := &cobra.Command{
		Use:   "xiloader",
		Short: "Decode BMP/PNG images with the xiloader library",
	}

	decodeCommand := &cobra.Command{
		Use:   "decode [input]",
		Short: "Decode a BMP or PNG file and write it back out as PNG",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Fprintln(os.Stderr, "you must provide an input path")
				cmd.Usage()
				os.Exit(1)
			}

			if verbose {
				xlog.SetLevel(zerolog.DebugLevel)
			}

			opts := []xiloader.Option{
				xiloader.WithForceFlip(forceFlip),
				xiloader.WithPreciseDownscale(preciseDownscale),
				xiloader.WithBMPAlwaysRGBA(alwaysRGBA32),
			}

			inPath := args[0]

			var img *xiloader.Image
			if strict {
				decoded, err := xiloader.DecodeStrict(inPath, opts...)
				if err != nil {
					fmt.Fprintln(os.Stderr, "decode error:", err)
					os.Exit(1)
				}
				img = decoded
			} else {
				decoded, _ := xiloader.Decode(inPath, opts...)
				if decoded.Empty() {
					fmt.Fprintln(os.Stderr, "decode failed")
					os.Exit(1)
				}
				img = decoded
			}

			if outPath == "" {
				outPath = inPath + ".out.png"
			}
			if err := writePNG(outPath, img); err != nil {
				fmt.Fprintln(os.Stderr, "write error:", err)
				os.Exit(1)
			}

			fmt.Printf("Decoded %s (%dx%d, %d channels) -> %s\n", inPath, img.Width, img.Height, img.Channels, outPath)
		},
	}

	decodeCommand.Flags().StringVarP(&outPath, "output", "o", "", "output PNG path (default: <input>.out.png)")
	decodeCommand.Flags().BoolVar(&forceFlip, "flip", false, "force vertical flip")
	decodeCommand.Flags().BoolVar(&preciseDownscale, "precise-downscale", false, "use rounded PNG 16-to-8 bit downscaling")
	decodeCommand.Flags().BoolVar(&alwaysRGBA32, "rgba32", false, "treat 32bpp BMPs without a mask as RGBA")
	decodeCommand.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	decodeCommand.Flags().BoolVar(&strict, "strict", false, "surface decode errors instead of swallowing them")

	var infoStrict bool
	infoCommand := &cobra.Command{
		Use:   "info [input]",
		Short: "Decode a BMP or PNG file and print its dimensions without writing output",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Fprintln(os.Stderr, "you must provide an input path")
				cmd.Usage()
				os.Exit(1)
			}

			inPath := args[0]
			data, err := os.ReadFile(inPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, "read error:", err)
				os.Exit(1)
			}

			format := xiloader.Sniff(data)

			var img *xiloader.Image
			if infoStrict {
				decoded, err := xiloader.DecodeBytesStrict(data)
				if err != nil {
					fmt.Fprintln(os.Stderr, "decode error:", err)
					os.Exit(1)
				}
				img = decoded
			} else {
				decoded, _ := xiloader.DecodeBytes(data)
				if decoded.Empty() {
					fmt.Fprintln(os.Stderr, "decode failed")
					os.Exit(1)
				}
				img = decoded
			}

			fmt.Printf("format: %s\nwidth:  %d\nheight: %d\nchannels: %d\n", format, img.Width, img.Height, img.Channels)
		},
	}
	infoCommand.Flags().BoolVar(&infoStrict, "strict", false, "surface decode errors instead of swallowing them")

	probeCommand := &cobra.Command{
		Use:   "probe [input]",
		Short: "Sniff a file's image format from its magic bytes without decoding it",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 {
				fmt.Fprintln(os.Stderr, "you must provide an input path")
				cmd.Usage()
				os.Exit(1)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, "read error:", err)
				os.Exit(1)
			}

			fmt.Println(xiloader.Sniff(data))
		},
	}

	rootCommand.AddCommand(decodeCommand, infoCommand, probeCommand)

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}

func writePNG(path string, img *xiloader.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	bounds := image.Rect(0, 0, img.Width, img.Height)
	dst := image.NewNRGBA(bounds)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px, err := img.At(x, y)
			if err != nil {
				return err
			}
			var c color.NRGBA
			switch img.Channels {
			case 1:
				c = color.NRGBA{R: px[0], G: px[0], B: px[0], A: 255}
			case 2:
				c = color.NRGBA{R: px[0], G: px[0], B: px[0], A: px[1]}
			case 3:
				c = color.NRGBA{R: px[0], G: px[1], B: px[2], A: 255}
			default:
				c = color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
			}
			dst.SetNRGBA(x, y, c)
		}
	}

	return png.Encode(out, dst)
}
