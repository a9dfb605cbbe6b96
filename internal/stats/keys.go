package stats

import (
	"fmt"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
)

var keyNames = map[aggregate.Key]string{
	aggregate.KeyBackspace: "BACK",
	9:                      "TAB",
	13:                     "RETURN",
	16:                     "SHIFT",
	17:                     "CTRL",
	18:                     "ALT",
	20:                     "CAPSLOCK",
	27:                     "ESC",
	32:                     "SPACE",
	37:                     "LEFT",
	38:                     "UP",
	39:                     "RIGHT",
	40:                     "DOWN",
	46:                     "DELETE",
}

// KeyName returns a printable label for a virtual key code.
func KeyName(k aggregate.Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	switch {
	case k >= '0' && k <= '9', k >= 'A' && k <= 'Z':
		return string(rune(k))
	case k >= 112 && k <= 135:
		return fmt.Sprintf("F%d", k-111)
	default:
		return fmt.Sprintf("0x%02X", int(k))
	}
}
