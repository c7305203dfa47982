package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for typ, name := range typeNames {
		got, err := ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, typ, got)
		assert.Equal(t, name, typ.String())
	}

	got, err := ParseType(" Notification ")
	require.NoError(t, err)
	assert.Equal(t, TypeNotifications, got)

	_, err = ParseType("lamp")
	assert.ErrorContains(t, err, "unknown light type")
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "type(42)", Type(42).String())
}

func TestParseFlash(t *testing.T) {
	tests := []struct {
		in        string
		want      Flash
		wantError bool
	}{
		{in: "", want: FlashNone},
		{in: "none", want: FlashNone},
		{in: "TIMED", want: FlashTimed},
		{in: "hardware", want: FlashHardware},
		{in: "strobe", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlash(tt.in)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "SUCCESS", StatusSuccess.String())
	assert.Equal(t, "LIGHT_NOT_SUPPORTED", StatusLightNotSupported.String())
}
