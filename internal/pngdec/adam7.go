package pngdec

// adam7Pass describes one of the seven interlace passes: the starting
// offset and stride, in both dimensions, of the pixels it covers within
// the full image.
type adam7Pass struct {
	xStart, yStart, xStep, yStep int
}

// Grounded directly on the PNG specification's Adam7 pass table; the
// reference source (png.h) never implements this step.
var adam7Passes = [7]adam7Pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

func adam7PassDims(p adam7Pass, fullWidth, fullHeight int) (w, h int) {
	if fullWidth <= p.xStart {
		return 0, 0
	}
	if fullHeight <= p.yStart {
		return 0, 0
	}
	w = (fullWidth - p.xStart + p.xStep - 1) / p.xStep
	h = (fullHeight - p.yStart + p.yStep - 1) / p.yStep
	return w, h
}

// scatterPass copies a fully-transformed pass sub-image (passW x passH
// pixels, channels each) into its final positions within out (fullW x
// fullH pixels, channels each).
func scatterPass(out []byte, fullW, channels int, p adam7Pass, passW, passH int, passPixels []byte) {
	for py := 0; py < passH; py++ {
		for px := 0; px < passW; px++ {
			x := p.xStart + px*p.xStep
			y := p.yStart + py*p.yStep

			srcOff := (py*passW + px) * channels
			dstOff := (y*fullW + x) * channels
			copy(out[dstOff:dstOff+channels], passPixels[srcOff:srcOff+channels])
		}
	}
}
