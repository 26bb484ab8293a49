package led_test

import (
	"encoding/json"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/clambin/ledcontroller/internal/led"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder(t *testing.T) {
	var h led.Holder
	assert.Equal(t, led.State{}, h.GetState())

	require.NoError(t, h.SetState(100, 50, 0))
	assert.Equal(t, led.State{Red: 100, Green: 50, Blue: 0}, h.GetState())

	err := h.SetState("bright", 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, led.ErrInvalidType)
	assert.Equal(t, led.State{Red: 100, Green: 50, Blue: 0}, h.GetState())

	require.NoError(t, h.SetState(json.Number("150"), json.Number("-10"), json.Number("0")))
	assert.Equal(t, led.State{Red: 150, Green: -10, Blue: 0}, h.GetState())

	assert.ErrorIs(t, h.SetState(led.MaxPercent+1, 0, 0), led.ErrInvalidType)
	assert.Equal(t, led.State{Red: 150, Green: -10, Blue: 0}, h.GetState())

	assert.ErrorIs(t, h.SetState(json.Number("1.5"), 0, 0), led.ErrInvalidType)
	assert.Equal(t, led.State{Red: 150, Green: -10, Blue: 0}, h.GetState())
}

func TestHolder_Concurrent(t *testing.T) {
	var h led.Holder
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = h.SetState(i, i, i)
			s := h.GetState()
			assert.True(t, s.Red == s.Green && s.Green == s.Blue)
		}(i)
	}
	wg.Wait()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		red   any
		green any
		blue  any
		want  bool
	}{
		{name: "ints", red: 1, green: 2, blue: 3, want: true},
		{name: "out of range", red: -1, green: 200, blue: 0, want: true},
		{name: "sized ints", red: int64(1), green: uint8(2), blue: int32(3), want: true},
		{name: "json ints", red: json.Number("10"), green: json.Number("-5"), blue: json.Number("0"), want: true},
		{name: "string", red: "bright", green: 0, blue: 0, want: false},
		{name: "float", red: 0, green: 1.5, blue: 0, want: false},
		{name: "json float", red: 0, green: 0, blue: json.Number("1.5"), want: false},
		{name: "json exponent", red: json.Number("1e2"), green: 0, blue: 0, want: false},
		{name: "json integral float", red: json.Number("100.0"), green: 0, blue: 0, want: false},
		{name: "json overflow", red: json.Number("99999999999999999999"), green: 0, blue: 0, want: false},
		{name: "largest", red: led.MaxPercent, green: -led.MaxPercent, blue: json.Number(strconv.Itoa(led.MaxPercent)), want: true},
		{name: "too large", red: led.MaxPercent + 1, green: 0, blue: 0, want: false},
		{name: "too small", red: 0, green: -led.MaxPercent - 1, blue: 0, want: false},
		{name: "json too large", red: 0, green: 0, blue: json.Number(strconv.Itoa(led.MaxPercent + 1)), want: false},
		{name: "int64 too large", red: int64(math.MaxInt64), green: 0, blue: 0, want: false},
		{name: "uint64 too large", red: uint64(math.MaxUint64), green: 0, blue: 0, want: false},
		{name: "bool", red: true, green: 0, blue: 0, want: false},
		{name: "nil", red: nil, green: 0, blue: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, led.Validate(tt.red, tt.green, tt.blue))
		})
	}
}

func TestDutyCycle(t *testing.T) {
	tests := []struct {
		percent int
		want    int
	}{
		{percent: 0, want: 0},
		{percent: 1, want: 40},
		{percent: 50, want: 2047},
		{percent: 99, want: 4054},
		{percent: 100, want: 4095},
		{percent: 150, want: 6142},
		{percent: -10, want: -409},
		{percent: -1, want: -40},
		{percent: 1_000_000, want: 40_950_000},
		{percent: -1_000_050, want: -40_952_047},
		{percent: led.MaxPercent, want: led.MaxPercent / 100 * led.MaxDutyCycle},
		{percent: -led.MaxPercent, want: -led.MaxPercent / 100 * led.MaxDutyCycle},
	}

	for _, tt := range tests {
		got := led.DutyCycle(tt.percent)
		assert.Equal(t, tt.want, got, tt.percent)
		assert.Equal(t, got, led.DutyCycle(tt.percent), "conversion must be stable")
		if tt.percent > 0 {
			assert.Positive(t, got, tt.percent)
		}
	}
}
