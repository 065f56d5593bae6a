package eth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	testBytesN(t, 32, &Bytes32{0: 1, 32 - 1: 2}, func() BytesN { return new(Bytes32) })
	testBytesN(t, 65, &Bytes65{0: 1, 65 - 1: 2}, func() BytesN { return new(Bytes65) })
	testBytesN(t, 256, &Bytes256{0: 1, 256 - 1: 2}, func() BytesN { return new(Bytes256) })
}

type BytesN interface {
	String() string
	TerminalString() string
	UnmarshalJSON(text []byte) error
	UnmarshalText(text []byte) error
	MarshalText() ([]byte, error)
}

func testBytesN(t *testing.T, n int, x BytesN, alloc func() BytesN) {
	t.Run(fmt.Sprintf("Bytes%d", n), func(t *testing.T) {
		xStr := "0x01" + strings.Repeat("00", n-2) + "02"
		require.Equal(t, xStr, x.String())
		require.Equal(t, "0x010000..000002", x.TerminalString())
		out, err := x.MarshalText()
		require.NoError(t, err)
		require.Equal(t, xStr, string(out))

		y := alloc()
		require.NoError(t, y.UnmarshalText([]byte(xStr)))
		require.Equal(t, x, y)

		z := alloc()
		require.NoError(t, z.UnmarshalJSON([]byte(fmt.Sprintf("%q", xStr))))
		require.Equal(t, x, z)

		require.Error(t, alloc().UnmarshalText([]byte("0x0102")), "wrong length")
	})
}
