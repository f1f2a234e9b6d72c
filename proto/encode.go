package proto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/srlehn/lcdpipe/internal/consts"
	"github.com/srlehn/lcdpipe/internal/errors"
)

// Encode renders cmd in the format the LCD simulator emits, without the
// line terminator. Decode(Encode(cmd)) yields cmd again.
func Encode(cmd Command) (string, error) {
	switch c := cmd.(type) {
	case Clear:
		return KeywordReset, nil
	case SetPixel:
		return fmt.Sprintf(`%s %d %d 0x%06x`, KeywordPlot, c.P.X, c.P.Y, c.Color.Uint32()), nil
	case FillBox:
		return fmt.Sprintf(`%s %d %d %d %d 0x%06x`, KeywordBox,
			c.P1.X, c.P2.X, c.P1.Y, c.P2.Y, c.Color.Uint32()), nil
	case BlitBitmap:
		return fmt.Sprintf(`%s %d %d %d %d 0x%06x 0x%06x %s`, KeywordBitmap,
			c.P1.X, c.P2.X, c.P1.Y, c.P2.Y, c.FG.Uint32(), c.BG.Uint32(),
			strings.ToUpper(hex.EncodeToString(c.Bits))), nil
	case nil:
		return ``, errors.NilParam()
	default:
		return ``, errors.New(fmt.Errorf(`%w: %T`, consts.ErrUnsupportedCommand, cmd))
	}
}
