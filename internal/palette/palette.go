package palette

import (
	"fmt"
	"strconv"
)

// Size is the number of palette entries. Valid codes are 0..Size-1.
const Size = 128

// Hex returns the "#rrggbb" color for code c. Codes past the palette wrap
// into range by masking the high bit, as the device does.
func Hex(c uint8) string {
	return hex[c&0x7F]
}

// RGB returns the 8-bit channels of code c
func RGB(c uint8) (r, g, b uint8) {
	v, err := strconv.ParseUint(Hex(c)[1:], 16, 32)
	if err != nil {
		// the table is static; a parse failure is a build defect
		panic(fmt.Sprintf("palette: bad entry %d: %v", c, err))
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
