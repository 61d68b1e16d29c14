package machine

// Framebuffer is the 64x32 monochrome display, stored row-major with the
// origin at the top left. Every cell is either 0 or 1.
type Framebuffer [DisplaySize]uint8

// Pixel returns whether the pixel at the given coordinates is lit.
// Coordinates outside of the display are never lit.
func (f *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return f[y*DisplayWidth+x] == 1
}

// Lit returns the number of lit pixels.
func (f *Framebuffer) Lit() int {
	n := 0
	for _, cell := range f {
		n += int(cell)
	}
	return n
}
