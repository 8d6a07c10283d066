package netutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACParseRoundTrip(t *testing.T) {
	cases := []string{
		"AA:BB:CC:DD:EE:FF",
		"aa:bb:cc:dd:ee:ff",
		"Aa:Bb:Cc:Dd:Ee:Ff",
	}
	for _, c := range cases {
		m, err := ParseMAC(c)
		require.NoError(t, err, c)
		assert.Equal(t, "aa:bb:cc:dd:ee:ff", m.String(), c)
	}
}

func TestMACParseRejectsGarbage(t *testing.T) {
	_, err := ParseMAC("not-a-mac")
	assert.Error(t, err)
}

func TestAddressParse(t *testing.T) {
	_, err := ParseAddress("10.0.0.1/24")
	assert.NoError(t, err)

	_, err = ParseAddress("fe80::1/64")
	assert.NoError(t, err)

	bad := []string{"10.0.0.1", "10.0.0.1/33", "fe80::1/129", "not-an-address"}
	for _, b := range bad {
		_, err := ParseAddress(b)
		assert.Error(t, err, b)
	}
}
