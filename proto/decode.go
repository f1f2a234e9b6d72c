package proto

import (
	"encoding/hex"
	"image"
	"strings"
)

// Decode parses one protocol line. Surrounding whitespace, including the
// line terminator, is ignored. Every failure is a *DecodeError.
func Decode(line string) (Command, error) {
	line = strings.TrimSpace(line)
	fields := strings.Split(line, ` `)
	switch fields[0] {
	case KeywordReset:
		if len(fields) != 1 {
			return nil, decodeErr(line, ErrMalformedLine, ``, nil)
		}
		return Clear{}, nil

	case KeywordBox:
		if len(fields) != 6 {
			return nil, decodeErr(line, ErrMalformedLine, ``, nil)
		}
		p1, p2, err := decodeRect(line, fields[1:5])
		if err != nil {
			return nil, err
		}
		col, err := decodeColor(line, fields[5])
		if err != nil {
			return nil, err
		}
		return FillBox{P1: p1, P2: p2, Color: col}, nil

	case KeywordBitmap:
		if len(fields) != 8 {
			return nil, decodeErr(line, ErrMalformedLine, ``, nil)
		}
		p1, p2, err := decodeRect(line, fields[1:5])
		if err != nil {
			return nil, err
		}
		fg, err := decodeColor(line, fields[5])
		if err != nil {
			return nil, err
		}
		bg, err := decodeColor(line, fields[6])
		if err != nil {
			return nil, err
		}
		bits, err := hex.DecodeString(fields[7])
		if err != nil {
			return nil, decodeErr(line, ErrBadHex, ``, err)
		}
		return BlitBitmap{P1: p1, P2: p2, FG: fg, BG: bg, Bits: bits}, nil

	case KeywordPlot:
		if len(fields) != 4 {
			return nil, decodeErr(line, ErrMalformedLine, ``, nil)
		}
		x, err := decodeInt(line, fields[1])
		if err != nil {
			return nil, err
		}
		y, err := decodeInt(line, fields[2])
		if err != nil {
			return nil, err
		}
		col, err := decodeColor(line, fields[3])
		if err != nil {
			return nil, err
		}
		return SetPixel{P: image.Pt(x, y), Color: col}, nil

	default:
		return nil, decodeErr(line, ErrUnknownCommand, fields[0], nil)
	}
}

// decodeRect reads the wire order x1 x2 y1 y2.
func decodeRect(line string, fields []string) (p1, p2 image.Point, _ error) {
	var v [4]int
	for i, f := range fields {
		n, err := decodeInt(line, f)
		if err != nil {
			return image.Point{}, image.Point{}, err
		}
		v[i] = n
	}
	return image.Pt(v[0], v[2]), image.Pt(v[1], v[3]), nil
}

func decodeInt(line, field string) (int, error) {
	v, err := ParseInt(field)
	if err != nil {
		return 0, decodeErr(line, ErrBadNumber, field, err)
	}
	return v, nil
}

func decodeColor(line, field string) (Color, error) {
	c, err := ParseColor(field)
	if err != nil {
		return Color{}, decodeErr(line, ErrBadNumber, field, err)
	}
	return c, nil
}
