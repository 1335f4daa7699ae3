package output

import "github.com/portkill/portkill/pkg/model"

var (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

func stateColor(s model.State) string {
	switch s {
	case model.StateListen:
		return colorGreen
	case model.StateEstablished:
		return colorBlue
	case model.StateTimeWait, model.StateCloseWait:
		return colorYellow
	default:
		return colorDim
	}
}

// paint wraps s in color when enabled.
func paint(s, color string, enabled bool) string {
	if !enabled || color == "" || s == "" {
		return s
	}
	return color + s + colorReset
}
