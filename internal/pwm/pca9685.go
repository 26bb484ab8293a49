package pwm

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"
)

// Controller is the subset of *pca9685.Dev used by PCA9685
type Controller interface {
	SetPwmFreq(freqHz physic.Frequency) error
	SetPwm(channel int, on, off gpio.Duty) error
}

var _ Controller = &pca9685.Dev{}
var _ Driver = &PCA9685{}

// PCA9685 drives a PCA9685 16-channel, 12-bit PWM controller
type PCA9685 struct {
	Controller Controller
}

// Open initializes the host drivers, opens the I2C bus and returns a PCA9685 at the given address.
// An empty busName opens the first available bus. The returned bus must be closed by the caller.
func Open(busName string, addr uint16) (*PCA9685, i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	dev, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		_ = bus.Close()
		return nil, nil, fmt.Errorf("pca9685 at 0x%02x: %w", addr, err)
	}
	log.WithFields(log.Fields{
		"bus":  bus.String(),
		"addr": fmt.Sprintf("0x%02x", addr),
	}).Debug("pca9685 opened")
	return &PCA9685{Controller: dev}, bus, nil
}

// SetFrequency sets the PWM frequency for all channels
func (p *PCA9685) SetFrequency(freq physic.Frequency) error {
	if err := p.Controller.SetPwmFreq(freq); err != nil {
		return fmt.Errorf("set frequency %s: %w", freq, err)
	}
	return nil
}

// SetChannelDuty sets the duty cycle of a channel. The output switches on at tick 0 and off at tick duty.
func (p *PCA9685) SetChannelDuty(channel int, duty int) error {
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("invalid channel %d", channel)
	}
	if err := p.Controller.SetPwm(channel, 0, gpio.Duty(duty)); err != nil {
		return fmt.Errorf("set channel %d: %w", channel, err)
	}
	return nil
}
