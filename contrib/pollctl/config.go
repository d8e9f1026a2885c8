package main

import (
	"io/ioutil"
	"net"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/spikeekips/partivotes/storage/leveldbstorage"
)

type Config struct {
	Storage leveldbstorage.Config `yaml:"storage"`
	Log     LogConfig             `yaml:"log"`
	Clock   ClockConfig           `yaml:"clock"`
	API     APIConfig             `yaml:"api"`
	Ledger  LedgerConfig          `yaml:"ledger"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ClockConfig.NTPServer is optional; without it the local clock is used.
type ClockConfig struct {
	NTPServer string        `yaml:"ntp-server"`
	Interval  time.Duration `yaml:"interval"`
}

type APIConfig struct {
	Bind            string        `yaml:"bind"`
	QueueSize       uint          `yaml:"queue-size"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout"`
}

type LedgerConfig struct {
	RequireAuthentication bool `yaml:"require-authentication"`
	VerifyVoteSignature   bool `yaml:"verify-vote-signature"`
}

func NewConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  log15.LvlCrit.String(),
			Format: "terminal",
		},
		Clock: ClockConfig{
			Interval: time.Second * 10,
		},
		API: APIConfig{
			Bind:            "127.0.0.1:54320",
			QueueSize:       100,
			ShutdownTimeout: time.Second * 5,
		},
	}
}

func newConfigFromBytes(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}

	if err := c.IsValid(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) IsValid() error {
	if _, err := log15.LvlFromString(c.Log.Level); err != nil {
		return xerrors.Errorf("invalid log level; %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "terminal":
	default:
		return xerrors.Errorf("invalid log format; %q", c.Log.Format)
	}

	if len(c.Clock.NTPServer) > 0 && c.Clock.Interval < time.Second {
		return xerrors.Errorf("clock interval should be over 1s; interval=%s", c.Clock.Interval)
	}

	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return xerrors.Errorf("invalid api bind; %q: %w", c.API.Bind, err)
	}

	if c.API.QueueSize < 1 {
		return xerrors.Errorf("queue-size should be greater than 0")
	}

	return nil
}

// mergeFlags overrides the config by the flags which are set.
func (c Config) mergeFlags(cmd *cobra.Command) Config {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		c.Log.Level = flagLogLevel.String()
	}

	if flags.Changed("log-format") {
		c.Log.Format = flagLogFormat.String()
	}

	if flags.Changed("log") {
		c.Log.Output = flagLogOut
	}

	if flags.Changed("storage") {
		c.Storage.Path = flagStorage
	}

	return c
}

func (c Config) Dump() string {
	return spew.Sdump(c)
}

func loadConfig(cmd *cobra.Command) error {
	c := NewConfig()

	if len(flagConfig) > 0 {
		b, err := ioutil.ReadFile(flagConfig)
		if err != nil {
			return err
		}

		n, err := newConfigFromBytes(b)
		if err != nil {
			return err
		}
		c = n
	}

	c = c.mergeFlags(cmd)
	if err := c.IsValid(); err != nil {
		return err
	}

	globalConfig = c

	return nil
}
