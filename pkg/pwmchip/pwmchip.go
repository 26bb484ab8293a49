// Package pwmchip controls a PWM controller exposed by the kernel under /sys/class/pwm.
package pwmchip

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Chip struct {
	path string
}

func New(path string) Chip {
	return Chip{path: path}
}

// NumChannels returns the number of PWM channels of the chip
func (c Chip) NumChannels() (int, error) {
	return readInt(filepath.Join(c.path, "npwm"))
}

// Export makes the channel available under the chip's directory. Exporting a channel that is already exported
// is not an error.
func (c Chip) Export(channel int) (Channel, error) {
	ch := c.Channel(channel)
	if _, err := os.Stat(ch.path); err == nil {
		return ch, nil
	}
	if err := writeInt(filepath.Join(c.path, "export"), channel); err != nil {
		return Channel{}, fmt.Errorf("export pwm%d: %w", channel, err)
	}
	if _, err := os.Stat(ch.path); err != nil {
		return Channel{}, fmt.Errorf("export pwm%d: %w", channel, err)
	}
	return ch, nil
}

// Channel returns a channel of the chip. The channel must have been exported.
func (c Chip) Channel(channel int) Channel {
	return Channel{path: filepath.Join(c.path, "pwm"+strconv.Itoa(channel))}
}

// Channel is one PWM output. Period and duty cycle are expressed in nanoseconds.
type Channel struct {
	path string
}

func (c Channel) GetPeriod() (int, error) {
	return readInt(filepath.Join(c.path, "period"))
}

func (c Channel) SetPeriod(ns int) error {
	return writeInt(filepath.Join(c.path, "period"), ns)
}

func (c Channel) GetDutyCycle() (int, error) {
	return readInt(filepath.Join(c.path, "duty_cycle"))
}

func (c Channel) SetDutyCycle(ns int) error {
	return writeInt(filepath.Join(c.path, "duty_cycle"), ns)
}

func (c Channel) Enabled() (bool, error) {
	value, err := readInt(filepath.Join(c.path, "enable"))
	return value == 1, err
}

func (c Channel) Enable(on bool) error {
	var value int
	if on {
		value = 1
	}
	return writeInt(filepath.Join(c.path, "enable"), value)
}

func readInt(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

func writeInt(path string, value int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(value)), 0644)
}
