package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/portkill/portkill/pkg/model"
)

// PrintTree groups records under their owning process, lowest PID first.
// Sockets without a known owner are listed last.
func PrintTree(w io.Writer, records []model.SocketRecord, colorEnabled bool) {
	byPID := map[uint32][]model.SocketRecord{}
	var pids []uint32
	for _, r := range records {
		if _, ok := byPID[r.PID]; !ok {
			pids = append(pids, r.PID)
		}
		byPID[r.PID] = append(byPID[r.PID], r)
	}
	sort.Slice(pids, func(i, j int) bool {
		// 0 (unknown) sorts last
		if pids[i] == 0 || pids[j] == 0 {
			return pids[j] == 0 && pids[i] != 0
		}
		return pids[i] < pids[j]
	})

	branch := paint("└─ ", colorMagenta, colorEnabled)
	for _, pid := range pids {
		group := byPID[pid]
		if pid == 0 {
			fmt.Fprintln(w, paint("(unknown owner)", colorDim, colorEnabled))
		} else {
			head := group[0]
			fmt.Fprintf(w, "%s (%spid %d%s)", paint(head.DisplayName(), colorGreen, colorEnabled), dim(colorEnabled), pid, reset(colorEnabled))
			if head.User != "" {
				fmt.Fprintf(w, " %s", head.User)
			}
			fmt.Fprintln(w)
		}
		for _, r := range group {
			fmt.Fprintf(w, "  %s%d/%s %s %s\n", branch, r.Port, r.Protocol, paint(r.State.String(), stateColor(r.State), colorEnabled), r.LocalAddress)
		}
	}
}
