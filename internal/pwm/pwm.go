package pwm

import (
	"periph.io/x/conn/v3/physic"
)

// Channels used for each colour of the LED bank
const (
	Red   = 0
	Green = 1
	Blue  = 2
)

// NumChannels is the number of PWM outputs on the controller
const NumChannels = 16

// DefaultFrequency is the PWM switching frequency set at startup
const DefaultFrequency = 1525 * physic.Hertz

// Driver sets the PWM frequency and per-channel duty cycle of a PWM controller
type Driver interface {
	SetFrequency(freq physic.Frequency) error
	SetChannelDuty(channel int, duty int) error
}
