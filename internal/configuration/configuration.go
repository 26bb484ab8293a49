package configuration

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

type Configuration struct {
	Debug           bool                `yaml:"debug"`
	Addr            string              `yaml:"addr"`
	PrometheusAddr  string              `yaml:"prometheus"`
	LegacyResponses bool                `yaml:"legacy_responses"`
	ShutdownTimeout time.Duration       `yaml:"shutdown_timeout"`
	Device          DeviceConfiguration `yaml:"device"`
}

type DeviceConfiguration struct {
	Bus       string `yaml:"bus"`
	Address   uint16 `yaml:"address"`
	Frequency int    `yaml:"frequency"`
	SysfsChip string `yaml:"sysfs_chip"`
	DryRun    bool   `yaml:"dry_run"`
}

// Default returns the configuration used when no flags or configuration file are given
func Default() Configuration {
	return Configuration{
		Addr:            ":8080",
		PrometheusAddr:  ":9090",
		LegacyResponses: true,
		ShutdownTimeout: 10 * time.Second,
		Device: DeviceConfiguration{
			Address:   0x40,
			Frequency: 1525,
		},
	}
}

// PWMFrequency returns the configured PWM frequency
func (c DeviceConfiguration) PWMFrequency() physic.Frequency {
	return physic.Frequency(c.Frequency) * physic.Hertz
}

// GetConfiguration parses the command line arguments. If a configuration file is given, its values replace the
// defaults. Flags on the command line take precedence over the configuration file.
func GetConfiguration(name, version string, args []string) (Configuration, error) {
	cfg := Default()
	var cfgFile string
	if _, err := newApp(name, version, &cfg, &cfgFile).Parse(args); err != nil {
		return Configuration{}, err
	}

	if cfgFile != "" {
		fileCfg, err := Load(cfgFile)
		if err != nil {
			return Configuration{}, err
		}
		cfg = fileCfg
		// re-apply the command line on top of the file
		if _, err = newApp(name, version, &cfg, &cfgFile).Parse(args); err != nil {
			return Configuration{}, err
		}
	}

	return cfg, cfg.validate()
}

// Load reads a YAML configuration file. Settings missing from the file keep their default value.
func Load(path string) (Configuration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("configuration file: %w", err)
	}
	cfg := Default()
	if err = yaml.Unmarshal(content, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("configuration file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Configuration) validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.Device.Frequency <= 0 {
		return fmt.Errorf("invalid pwm frequency: %d", c.Device.Frequency)
	}
	if c.Device.Address == 0 || c.Device.Address > 0x7F {
		return fmt.Errorf("invalid i2c address: 0x%x", c.Device.Address)
	}
	return nil
}

func newApp(name, version string, cfg *Configuration, cfgFile *string) *kingpin.Application {
	a := kingpin.New(name, "REST API for controlling RGB LEDs via a PCA9685 PWM controller")
	a.Version(version)
	a.HelpFlag.Short('h')
	a.VersionFlag.Short('v')
	a.Flag("config", "Configuration file").Short('c').Default(*cfgFile).StringVar(cfgFile)
	a.Flag("debug", "Log debug messages").Short('d').Default(fmt.Sprint(cfg.Debug)).BoolVar(&cfg.Debug)
	a.Flag("addr", "API listener address").Default(cfg.Addr).StringVar(&cfg.Addr)
	a.Flag("prometheus", "Prometheus metrics listener address (blank disables metrics)").Default(cfg.PrometheusAddr).StringVar(&cfg.PrometheusAddr)
	a.Flag("legacy-responses", "Report success for requests with non-integer values").Default(fmt.Sprint(cfg.LegacyResponses)).BoolVar(&cfg.LegacyResponses)
	a.Flag("shutdown-timeout", "Time to wait for requests to complete on shutdown").Default(cfg.ShutdownTimeout.String()).DurationVar(&cfg.ShutdownTimeout)
	a.Flag("bus", "I2C bus name (blank selects the first available bus)").Default(cfg.Device.Bus).StringVar(&cfg.Device.Bus)
	a.Flag("address", "I2C address of the PCA9685").Default(fmt.Sprintf("0x%02x", cfg.Device.Address)).Uint16Var(&cfg.Device.Address)
	a.Flag("frequency", "PWM frequency in Hz").Default(fmt.Sprint(cfg.Device.Frequency)).IntVar(&cfg.Device.Frequency)
	a.Flag("sysfs-chip", "Drive the PCA9685 through the kernel's pwmchip at this path instead of I2C").Default(cfg.Device.SysfsChip).StringVar(&cfg.Device.SysfsChip)
	a.Flag("dry-run", "Log duty cycles instead of driving the PCA9685").Default(fmt.Sprint(cfg.Device.DryRun)).BoolVar(&cfg.Device.DryRun)
	return a
}
