package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/astaxie/beego/config"
)

type Config struct {
	Port            string
	Root            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MetricsAddr     string
	LogLevel        string
	LogFile         string
	LogMaxDays      int
	KeepLineEndings bool
}

func defaultConfig() Config {
	return Config{
		Port:       "8080",
		Root:       "www",
		LogLevel:   "info",
		LogMaxDays: 7,
	}
}

// applyIni overrides c with whatever keys the ini data sets.
func (c *Config) applyIni(cfg config.Configer) error {
	c.Port = cfg.DefaultString("server::port", c.Port)
	c.Root = cfg.DefaultString("server::root", c.Root)
	c.MetricsAddr = cfg.DefaultString("metrics::addr", c.MetricsAddr)
	c.LogLevel = cfg.DefaultString("log::level", c.LogLevel)
	c.LogFile = cfg.DefaultString("log::file", c.LogFile)
	c.LogMaxDays = cfg.DefaultInt("log::max_days", c.LogMaxDays)
	c.KeepLineEndings = cfg.DefaultBool("content::keep_line_endings", c.KeepLineEndings)

	var err error
	if c.ReadTimeout, err = iniDuration(cfg, "server::read_timeout", c.ReadTimeout); err != nil {
		return err
	}
	if c.WriteTimeout, err = iniDuration(cfg, "server::write_timeout", c.WriteTimeout); err != nil {
		return err
	}
	return nil
}

func iniDuration(cfg config.Configer, key string, def time.Duration) (time.Duration, error) {
	s := cfg.String(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.Root == "" {
		return fmt.Errorf("root must not be empty")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.LogMaxDays < 0 {
		return fmt.Errorf("log max days must not be negative")
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// loadConfig builds the configuration from defaults, then the ini file
// named by -config, then any flag given explicitly.
func loadConfig(fs *flag.FlagSet, args []string) (Config, error) {
	c := defaultConfig()

	var (
		path = fs.String("config", "", "ini config file")
		port = fs.String("port", c.Port, "port number")
		root = fs.String("root", c.Root, "the www directory itself; request paths are joined directly onto it")
		rt   = fs.Duration("read-timeout", 0, "read deadline per connection, 0 disables")
		wt   = fs.Duration("write-timeout", 0, "write deadline per connection, 0 disables")
		ma   = fs.String("metrics", "", "address for the /metrics endpoint, empty disables")
		lvl  = fs.String("log-level", c.LogLevel, "debug, info, warn or error")
		lf   = fs.String("log-file", "", "log to this file instead of the console")
		lmd  = fs.Int("log-max-days", c.LogMaxDays, "days of rotated log files to keep, 0 disables rotation")
		kle  = fs.Bool("keep-line-endings", false, "keep newlines when copying html files")
	)
	if err := fs.Parse(args); err != nil {
		return c, err
	}

	if *path != "" {
		cfg, err := config.NewConfig("ini", *path)
		if err != nil {
			return c, fmt.Errorf("load %s: %v", *path, err)
		}
		if err := c.applyIni(cfg); err != nil {
			return c, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			c.Port = *port
		case "root":
			c.Root = *root
		case "read-timeout":
			c.ReadTimeout = *rt
		case "write-timeout":
			c.WriteTimeout = *wt
		case "metrics":
			c.MetricsAddr = *ma
		case "log-level":
			c.LogLevel = *lvl
		case "log-file":
			c.LogFile = *lf
		case "log-max-days":
			c.LogMaxDays = *lmd
		case "keep-line-endings":
			c.KeepLineEndings = *kle
		}
	})
	return c, c.validate()
}

func (c Config) workerOptions(m *Metrics) WorkerOptions {
	return WorkerOptions{
		Root:         c.Root,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		Content:      ContentOptions{KeepLineEndings: c.KeepLineEndings},
		Metrics:      m,
	}
}
