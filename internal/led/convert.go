package led

import (
	"encoding/json"
	"math"
)

// MaxDutyCycle is the duty cycle for 100% brightness on a 12-bit PWM controller
const MaxDutyCycle = 4095

// MaxPercent is the largest brightness, in either direction, whose duty cycle still fits in an int.
// Values beyond it are not integers the controller can represent and are rejected like any other non-integer.
const MaxPercent = math.MaxInt / MaxDutyCycle * 100

// Validate returns true if red, green and blue are all integers between -MaxPercent and MaxPercent.
// The brightness range 0-100 is not checked.
func Validate(red, green, blue any) bool {
	for _, v := range []any{red, green, blue} {
		if _, ok := toInt(v); !ok {
			return false
		}
	}
	return true
}

// DutyCycle converts a percentage to a duty cycle. Values outside 0-100 are not clamped.
// The result is exact for any percentage between -MaxPercent and MaxPercent.
func DutyCycle(percent int) int {
	return percent/100*MaxDutyCycle + percent%100*MaxDutyCycle/100
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return int64ToInt(int64(val))
	case int8:
		return int(val), true
	case int16:
		return int(val), true
	case int32:
		return int64ToInt(int64(val))
	case int64:
		return int64ToInt(val)
	case uint8:
		return int(val), true
	case uint16:
		return int(val), true
	case uint32:
		return int64ToInt(int64(val))
	case uint:
		return uint64ToInt(uint64(val))
	case uint64:
		return uint64ToInt(val)
	case json.Number:
		// Int64 rejects floats ("1.5", "1e2") as well as out-of-range values
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return int64ToInt(n)
	default:
		return 0, false
	}
}

func int64ToInt(v int64) (int, bool) {
	if v > MaxPercent || v < -MaxPercent {
		return 0, false
	}
	return int(v), true
}

func uint64ToInt(v uint64) (int, bool) {
	if v > MaxPercent {
		return 0, false
	}
	return int(v), true
}
