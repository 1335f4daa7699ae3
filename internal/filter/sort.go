package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/portkill/portkill/pkg/model"
)

// Sort columns.
const (
	SortPort    = "port"
	SortProcess = "process"
	SortPID     = "pid"
	SortState   = "state"
)

var SortColumns = []string{SortPort, SortProcess, SortPID, SortState}

func ValidSort(col string) error {
	for _, c := range SortColumns {
		if c == col {
			return nil
		}
	}
	return fmt.Errorf("unknown sort column %q (want one of %s)", col, strings.Join(SortColumns, ", "))
}

// Sort orders records in place by col; ties fall back to port then
// protocol so the order is stable across refreshes.
func Sort(records []model.SocketRecord, col string, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		var less, equal bool
		switch col {
		case SortProcess:
			an, bn := strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName())
			less, equal = an < bn, an == bn
		case SortPID:
			less, equal = a.PID < b.PID, a.PID == b.PID
		case SortState:
			as, bs := a.State.String(), b.State.String()
			less, equal = as < bs, as == bs
		default:
			less, equal = a.Port < b.Port, a.Port == b.Port
		}
		if equal {
			if a.Port != b.Port {
				return a.Port < b.Port
			}
			return a.Protocol < b.Protocol
		}
		if desc {
			return !less
		}
		return less
	})
}
