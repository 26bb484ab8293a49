package pwm

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
)

var _ Driver = &Logger{}

// Logger is a Driver that logs all calls instead of driving hardware. It remembers the last values set.
type Logger struct {
	Logger    *log.Entry
	lock      sync.Mutex
	frequency physic.Frequency
	duty      [NumChannels]int
}

func (l *Logger) SetFrequency(freq physic.Frequency) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.frequency = freq
	l.Logger.WithField("frequency", freq.String()).Info("SetFrequency")
	return nil
}

func (l *Logger) SetChannelDuty(channel int, duty int) error {
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("invalid channel %d", channel)
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	l.duty[channel] = duty
	l.Logger.WithFields(log.Fields{
		"channel": channel,
		"duty":    duty,
	}).Info("SetChannelDuty")
	return nil
}

// Frequency returns the last frequency set
func (l *Logger) Frequency() physic.Frequency {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.frequency
}

// Duty returns the last duty cycle set for a channel
func (l *Logger) Duty(channel int) (int, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, fmt.Errorf("invalid channel %d", channel)
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.duty[channel], nil
}
