package proto

import (
	"strconv"

	"github.com/srlehn/lcdpipe/internal/errors"
)

// ParseInt parses a coordinate literal. The base is implied by the prefix:
// 0x hex, 0 octal, decimal otherwise.
func ParseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, errors.New(err)
	}
	return int(v), nil
}

// ParseColor parses a colour literal with the same base rules as ParseInt
// and unpacks it as 0xRRGGBB.
func ParseColor(s string) (Color, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return Color{}, errors.New(err)
	}
	return ColorFromUint32(uint32(v)), nil
}

// FormatInt renders v in base 8, 10 or 16 so that ParseInt reads it back.
func FormatInt(v int, base int) string {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-int64(v))
	}
	var s string
	switch base {
	case 16:
		s = `0x` + strconv.FormatUint(u, 16)
	case 8:
		if u == 0 {
			s = `0`
		} else {
			s = `0` + strconv.FormatUint(u, 8)
		}
	default:
		s = strconv.FormatUint(u, 10)
	}
	if neg {
		return `-` + s
	}
	return s
}
