package proc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portkill/portkill/pkg/model"
)

const tcpHeader = "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode"

const listenLine = "  1: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 12345 1 0000000000000000 100 0 0 10 0"

func TestDecodeLineListen(t *testing.T) {
	rec, ok := DecodeLine(listenLine, model.ProtocolTCP)
	require.True(t, ok)

	assert.Equal(t, model.SocketRecord{
		Port:          8080,
		Protocol:      model.ProtocolTCP,
		State:         model.StateListen,
		LocalAddress:  "127.0.0.1:8080",
		RemoteAddress: "0.0.0.0",
		Inode:         12345,
	}, rec)
	assert.False(t, rec.HasPID())
	assert.Empty(t, rec.ProcessName)
	assert.Empty(t, rec.CommandLine)
	assert.Empty(t, rec.User)
}

func TestDecodeLineRoundTrip(t *testing.T) {
	tests := []struct {
		port  string
		state string
		inode string

		wantPort  uint16
		wantState model.State
		wantInode uint32
	}{
		{"0016", "0A", "999", 22, model.StateListen, 999},
		{"C350", "01", "4294967295", 50000, model.StateEstablished, 4294967295},
		{"01BB", "06", "0", 443, model.StateTimeWait, 0},
		{"0CEA", "08", "77", 3306, model.StateCloseWait, 77},
		{"1538", "02", "5", 5432, model.State(0x02), 5},
	}
	for _, tt := range tests {
		line := "   0: 0100007F:" + tt.port + " 0100007F:D431 " + tt.state +
			" 00000000:00000000 00:00000000 00000000  1000        0 " + tt.inode + " 1 0000000000000000 20 4 30 10 -1"
		rec, ok := DecodeLine(line, model.ProtocolTCP)
		require.True(t, ok, line)
		assert.Equal(t, tt.wantPort, rec.Port)
		assert.Equal(t, tt.wantState, rec.State)
		assert.Equal(t, tt.wantInode, rec.Inode)
		assert.Equal(t, "127.0.0.1:54321", rec.RemoteAddress)
		assert.Zero(t, rec.PID)
	}
}

func TestDecodeLineRejects(t *testing.T) {
	tests := map[string]string{
		"short":         "  0: 0100007F:1F90 00000000:0000 0A 00000000:00000000",
		"port zero":     "  0: 0100007F:0000 00000000:0000 0A 00000000:00000000 00:00000000 00000000 0 0 1 1",
		"no port":       "  0: 0100007F 00000000:0000 0A 00000000:00000000 00:00000000 00000000 0 0 1 1",
		"bad state":     "  0: 0100007F:1F90 00000000:0000 ZZ 00000000:00000000 00:00000000 00000000 0 0 1 1",
		"state too big": "  0: 0100007F:1F90 00000000:0000 1FF 00000000:00000000 00:00000000 00000000 0 0 1 1",
	}
	for name, line := range tests {
		_, ok := DecodeLine(line, model.ProtocolTCP)
		assert.False(t, ok, name)
	}
}

func TestDecodeLineInode(t *testing.T) {
	base := "  0: 0100007F:1F90 00000000:0000 0A 00000000:00000000 00:00000000 00000000 0 0 "

	rec, ok := DecodeLine(base+"0 1", model.ProtocolTCP)
	require.True(t, ok)
	assert.False(t, rec.HasInode())

	rec, ok = DecodeLine(base+"notanumber 1", model.ProtocolTCP)
	require.True(t, ok, "an unreadable inode keeps the record")
	assert.False(t, rec.HasInode())

	rec, ok = DecodeLine(base+"99999999999 1", model.ProtocolTCP)
	require.True(t, ok)
	assert.False(t, rec.HasInode())

	rec, ok = DecodeLine(base+"31337 1", model.ProtocolTCP)
	require.True(t, ok)
	assert.Equal(t, uint32(31337), rec.Inode)
}

func TestDecodeLineMissingRemotePort(t *testing.T) {
	line := "  0: 00000000:0050 00000000 0A 00000000:00000000 00:00000000 00000000 0 0 10 1"
	rec, ok := DecodeLine(line, model.ProtocolTCP)
	require.True(t, ok)
	assert.Equal(t, uint16(80), rec.Port)
	assert.Empty(t, rec.RemoteAddress)
}

func TestDecodeTable(t *testing.T) {
	table := strings.Join([]string{
		tcpHeader,
		listenLine,
		"",
		"   2: 0100007F:1F91 00000000:0000 0A 00000000",
		"   3: 0100007F:0000 00000000:0000 0A 00000000:00000000 00:00000000 00000000 0 0 4 1",
		"   4: 00000000:0016 00000000:0000 0A 00000000:00000000 00:00000000 00000000 0 0 2222 1 0 100 0 0 10 0",
		"   5: 0100007F:E4D7 0100007F:1F90 01 00000000:00000000 02:000006FA 00000000 1000 0 0 2 0 48 4 26 10 -1",
		"",
	}, "\n")

	records, err := DecodeTable(strings.NewReader(table), model.ProtocolTCP)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, uint16(8080), records[0].Port)
	assert.Equal(t, uint16(22), records[1].Port)
	assert.Equal(t, "0.0.0.0:22", records[1].LocalAddress)
	assert.Equal(t, model.StateEstablished, records[2].State)
	assert.Equal(t, "127.0.0.1:8080", records[2].RemoteAddress)
	assert.False(t, records[2].HasInode())
}

func TestDecodeTableHeaderOnly(t *testing.T) {
	records, err := DecodeTable(strings.NewReader(tcpHeader+"\n"), model.ProtocolTCP)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTableHasInode(t *testing.T) {
	table := tcpHeader + "\n" + listenLine + "\n"
	assert.True(t, tableHasInode(strings.NewReader(table), 12345))
	assert.False(t, tableHasInode(strings.NewReader(table), 1234))
	assert.False(t, tableHasInode(strings.NewReader(listenLine+"\n"), 12345), "first line is a header")
}
