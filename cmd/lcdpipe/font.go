package main

const (
	glyphWidth  = 5
	glyphHeight = 7
)

// digits in a 5x7 grid, one byte per row, bit 4 is the leftmost column
var glyphs = [10][glyphHeight]byte{
	{0x0E, 0x11, 0x13, 0x15, 0x19, 0x11, 0x0E},
	{0x04, 0x0C, 0x04, 0x04, 0x04, 0x04, 0x0E},
	{0x0E, 0x11, 0x01, 0x02, 0x04, 0x08, 0x1F},
	{0x1F, 0x02, 0x04, 0x02, 0x01, 0x11, 0x0E},
	{0x02, 0x06, 0x0A, 0x12, 0x1F, 0x02, 0x02},
	{0x1F, 0x10, 0x1E, 0x01, 0x01, 0x11, 0x0E},
	{0x06, 0x08, 0x10, 0x1E, 0x11, 0x11, 0x0E},
	{0x1F, 0x01, 0x02, 0x04, 0x08, 0x08, 0x08},
	{0x0E, 0x11, 0x11, 0x0E, 0x11, 0x11, 0x0E},
	{0x0E, 0x11, 0x11, 0x0F, 0x01, 0x02, 0x0C},
}

// glyphBits returns the digit scaled by scale as a row major 1bpp raster,
// most significant bit first.
func glyphBits(digit, scale int) []byte {
	w, h := glyphWidth*scale, glyphHeight*scale
	bits := make([]byte, (w*h+7)/8)
	g := glyphs[digit%10]
	for y := range h {
		row := g[y/scale]
		for x := range w {
			if row&(1<<(glyphWidth-1-x/scale)) == 0 {
				continue
			}
			i := y*w + x
			bits[i/8] |= 0x80 >> (i % 8)
		}
	}
	return bits
}
