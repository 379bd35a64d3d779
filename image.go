package xiloader

// Image is a decoded raster in the canonical 8-bit-per-channel packed
// layout: Width*Height*Channels bytes, row-major, top row first,
// channels interleaved (gray, gray+alpha, RGB or RGBA for 1..4 channels).
type Image struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

// Empty reports whether this Image carries no pixel data, the
// well-defined result of a failed non-strict decode.
func (img *Image) Empty() bool {
	return img == nil || img.Width == 0 || img.Height == 0 || len(img.Pixels) == 0
}

// At returns the Channels-length slice of sample bytes for pixel (x,y).
// The returned slice aliases the Image's backing array; mutate it to
// mutate the image.
func (img *Image) At(x, y int) ([]byte, error) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return nil, newDecodeError(KindOutOfRange, nil, "pixel (%d,%d) out of bounds for %dx%d image", x, y, img.Width, img.Height)
	}
	off := (y*img.Width + x) * img.Channels
	return img.Pixels[off : off+img.Channels], nil
}

// Flip reverses the Image's row order in place.
func (img *Image) Flip() {
	if img.Empty() {
		return
	}
	rowBytes := img.Width * img.Channels
	tmp := make([]byte, rowBytes)
	for y := 0; y < img.Height/2; y++ {
		top := img.Pixels[y*rowBytes : (y+1)*rowBytes]
		bottom := img.Pixels[(img.Height-1-y)*rowBytes : (img.Height-y)*rowBytes]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
