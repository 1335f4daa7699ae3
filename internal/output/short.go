package output

import (
	"fmt"
	"io"

	"github.com/portkill/portkill/pkg/model"
)

// RenderShort prints one compact line per record: port/proto, state and
// owner.
func RenderShort(w io.Writer, records []model.SocketRecord, colorEnabled bool) {
	for _, r := range records {
		owner := "?"
		if r.HasPID() {
			owner = fmt.Sprintf("%s (%spid %d%s)", paint(r.DisplayName(), colorGreen, colorEnabled),
				dim(colorEnabled), r.PID, reset(colorEnabled))
		}
		fmt.Fprintf(w, "%d/%s %s %s\n", r.Port, r.Protocol, paint(r.State.String(), stateColor(r.State), colorEnabled), owner)
	}
}

func dim(enabled bool) string {
	if enabled {
		return colorDim
	}
	return ""
}

func reset(enabled bool) string {
	if enabled {
		return colorReset
	}
	return ""
}
