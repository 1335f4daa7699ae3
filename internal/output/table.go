package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/pkg/model"
)

// minCommandWidth keeps the command column readable on narrow terminals.
const minCommandWidth = 16

var tableHeader = []string{"PORT", "PROTO", "STATE", "PID", "PROCESS", "USER", "LOCAL", "SERVICE", "COMMAND"}

// RenderTable writes one aligned row per record. width is the terminal
// width used to truncate the command column; 0 disables truncation.
func RenderTable(w io.Writer, records []model.SocketRecord, colorEnabled bool, width int) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No sockets match.")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, tableRow(r))
	}

	cols := len(tableHeader) - 1 // the command column is never padded
	widths := make([]int, cols)
	for i := 0; i < cols; i++ {
		widths[i] = ansi.PrintableRuneWidth(tableHeader[i])
		for _, row := range rows {
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(row[i]))
		}
	}

	used := 0
	for _, cw := range widths {
		used += cw + 2
	}
	cmdWidth := 0
	if width > 0 {
		cmdWidth = max(width-used, minCommandWidth)
	}

	line := make([]string, len(tableHeader))
	for i, h := range tableHeader {
		line[i] = cell(h, i, widths)
	}
	fmt.Fprintln(w, paint(strings.TrimRight(strings.Join(line, ""), " "), colorDim, colorEnabled))

	for ri, row := range rows {
		for i, v := range row {
			if i == len(row)-1 && cmdWidth > 0 {
				v = truncate.StringWithTail(v, uint(cmdWidth), "…")
			}
			v = cell(v, i, widths)
			switch i {
			case 2:
				v = paint(v, stateColor(records[ri].State), colorEnabled)
			case 4:
				v = paint(v, colorCyan, colorEnabled)
			case 7:
				v = paint(v, colorMagenta, colorEnabled)
			}
			line[i] = v
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(line, ""), " "))
	}
}

func cell(v string, i int, widths []int) string {
	if i >= len(widths) {
		return v
	}
	return padding.String(v, uint(widths[i]+2))
}

func tableRow(r model.SocketRecord) []string {
	pid := "-"
	if r.HasPID() {
		pid = strconv.FormatUint(uint64(r.PID), 10)
	}
	return []string{
		strconv.Itoa(int(r.Port)),
		string(r.Protocol),
		r.State.String(),
		pid,
		dash(r.DisplayName()),
		dash(r.User),
		dash(r.LocalAddress),
		dash(filter.WellKnownLabel(r.Port)),
		r.CommandLine,
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
