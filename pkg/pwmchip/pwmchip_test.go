package pwmchip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChip_NumChannels(t *testing.T) {
	tmpDir := t.TempDir()
	c := New(tmpDir)

	_, err := c.NumChannels()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "npwm"), []byte("16\n"), 0644))
	n, err := c.NumChannels()
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}

func TestChip_Export(t *testing.T) {
	tmpDir := t.TempDir()
	c := New(tmpDir)

	// the kernel doesn't create the channel
	_, err := c.Export(0)
	assert.Error(t, err)
	content, err := os.ReadFile(filepath.Join(tmpDir, "export"))
	require.NoError(t, err)
	assert.Equal(t, "0", string(content))

	// already exported
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "pwm1"), 0755))
	ch, err := c.Export(1)
	require.NoError(t, err)
	assert.Equal(t, c.Channel(1), ch)
}

func TestChannel(t *testing.T) {
	tmpDir := t.TempDir()
	ch := makeChannel(t, tmpDir, 2)

	require.NoError(t, ch.SetPeriod(655737))
	period, err := ch.GetPeriod()
	require.NoError(t, err)
	assert.Equal(t, 655737, period)

	require.NoError(t, ch.SetDutyCycle(327708))
	duty, err := ch.GetDutyCycle()
	require.NoError(t, err)
	assert.Equal(t, 327708, duty)

	require.NoError(t, ch.Enable(true))
	enabled, err := ch.Enabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, ch.Enable(false))
	enabled, err = ch.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestChannel_NotExported(t *testing.T) {
	ch := New(t.TempDir()).Channel(0)
	assert.Error(t, ch.SetPeriod(1000))
	_, err := ch.GetPeriod()
	assert.Error(t, err)
}

// makeChannel creates the sysfs attributes the kernel would create for an exported channel
func makeChannel(t *testing.T, path string, channel int) Channel {
	t.Helper()
	ch := New(path).Channel(channel)
	require.NoError(t, os.MkdirAll(ch.path, 0755))
	for _, attr := range []string{"period", "duty_cycle", "enable"} {
		require.NoError(t, os.WriteFile(filepath.Join(ch.path, attr), []byte("0\n"), 0644))
	}
	return ch
}
