package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portkill/portkill/pkg/model"
)

func TestDecodePort(t *testing.T) {
	tests := []struct {
		in     string
		want   uint16
		wantOK bool
	}{
		{"0050", 80, true},
		{"0100007F:0050", 80, true},
		{"00000000:1F90", 8080, true},
		{"FFFF", 65535, true},
		{"", 0, false},
		{"0000", 0, false},
		{"00000000:0000", 0, false},
		{"zz", 0, false},
		{"10000", 0, false},
	}
	for _, tt := range tests {
		got, ok := DecodePort(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDecodeAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0100007F:0050", "127.0.0.1:80"},
		{"0100007F:1F90", "127.0.0.1:8080"},
		{"00000000:0000", "0.0.0.0"},
		{"A12CF62E:E4D7", "46.246.44.161:58583"},
		{"00000000000000000000000001000000:0016", "[::1]:22"},
		{"00000000000000000000000000000000:1F90", "[::]:8080"},
		{"0000000000000000FFFF00000100007F:0050", "127.0.0.1:80"},
		{"", ""},
		{"0100:0050", ""},
		{"0100007F", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DecodeAddress(tt.in), tt.in)
	}
}

func TestDecodeState(t *testing.T) {
	named := map[string]model.State{
		"01": model.StateEstablished,
		"0A": model.StateListen,
		"0a": model.StateListen,
		"06": model.StateTimeWait,
		"08": model.StateCloseWait,
	}
	for in, want := range named {
		got, ok := DecodeState(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
		assert.True(t, got.Known(), in)
	}

	for code := 0; code <= 0xFF; code++ {
		s := model.State(code)
		if s.Known() {
			continue
		}
		got, ok := DecodeState(hexByte(code))
		require.True(t, ok)
		assert.Equal(t, uint8(code), uint8(got))
		assert.False(t, got.Known())
	}

	got, ok := DecodeState("")
	require.True(t, ok)
	assert.Equal(t, "Other(0)", got.String())

	_, ok = DecodeState("XY")
	assert.False(t, ok)
	_, ok = DecodeState("100")
	assert.False(t, ok)
}

func TestStateFromName(t *testing.T) {
	assert.Equal(t, model.StateListen, StateFromName("LISTEN"))
	assert.Equal(t, model.StateEstablished, StateFromName("established"))
	assert.Equal(t, model.State(0x02), StateFromName("SYN_SENT"))
	assert.Equal(t, model.State(0), StateFromName("WHATEVER"))
	assert.Equal(t, model.State(0), StateFromName(""))
}

func hexByte(v int) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[v>>4], digits[v&0x0F]})
}
