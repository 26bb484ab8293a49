package pwm

import (
	"fmt"
	"sync"
	"time"

	"github.com/clambin/ledcontroller/pkg/pwmchip"
	"periph.io/x/conn/v3/physic"
)

// ticks per PWM period on the PCA9685
const resolution = 4096

var _ Driver = &Sysfs{}

// Sysfs drives a PCA9685 through the kernel's pwm-pca9685 driver, exposed as a pwmchip under /sys/class/pwm.
// Duty cycles are converted from 12-bit ticks to nanoseconds of the configured period.
type Sysfs struct {
	channels [3]pwmchip.Channel
	lock     sync.Mutex
	periodNS int
}

// OpenSysfs exports the red, green and blue channels of the pwmchip at path
func OpenSysfs(path string) (*Sysfs, error) {
	chip := pwmchip.New(path)
	if n, err := chip.NumChannels(); err != nil {
		return nil, fmt.Errorf("pwmchip %s: %w", path, err)
	} else if n <= Blue {
		return nil, fmt.Errorf("pwmchip %s: only %d channels", path, n)
	}

	var s Sysfs
	for _, channel := range []int{Red, Green, Blue} {
		ch, err := chip.Export(channel)
		if err != nil {
			return nil, fmt.Errorf("pwmchip %s: %w", path, err)
		}
		s.channels[channel] = ch
	}
	return &s, nil
}

// SetFrequency sets the period of all channels. Channels are disabled while the period changes and their
// duty cycle is reset to zero.
func (s *Sysfs) SetFrequency(freq physic.Frequency) error {
	if freq <= 0 {
		return fmt.Errorf("invalid frequency %s", freq)
	}
	period := int(int64(time.Second) * int64(physic.Hertz) / int64(freq))

	s.lock.Lock()
	defer s.lock.Unlock()

	for i, ch := range s.channels {
		// the kernel rejects a period shorter than the current duty cycle
		if err := ch.Enable(false); err != nil {
			return fmt.Errorf("channel %d: disable: %w", i, err)
		}
		if err := ch.SetDutyCycle(0); err != nil {
			return fmt.Errorf("channel %d: duty cycle: %w", i, err)
		}
		if err := ch.SetPeriod(period); err != nil {
			return fmt.Errorf("channel %d: period: %w", i, err)
		}
		if err := ch.Enable(true); err != nil {
			return fmt.Errorf("channel %d: enable: %w", i, err)
		}
	}
	s.periodNS = period
	return nil
}

// SetChannelDuty sets the duty cycle of a channel, in ticks. Only the red, green and blue channels are exported.
// The kernel only accepts a duty cycle between zero and the period, so negative duty cycles switch the channel
// fully off and duty cycles beyond the chip's resolution switch it fully on.
func (s *Sysfs) SetChannelDuty(channel int, duty int) error {
	if channel < 0 || channel >= len(s.channels) {
		return fmt.Errorf("invalid channel %d", channel)
	}
	duty = max(0, min(duty, resolution))

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.periodNS == 0 {
		return fmt.Errorf("channel %d: frequency not set", channel)
	}
	ns := int(int64(s.periodNS) * int64(duty) / resolution)
	if err := s.channels[channel].SetDutyCycle(ns); err != nil {
		return fmt.Errorf("channel %d: duty cycle: %w", channel, err)
	}
	return nil
}
