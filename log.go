package main

import (
	"fmt"

	"github.com/astaxie/beego/logs"
	"github.com/goccy/go-json"
)

var logger = logs.NewLogger()

var logLevels = map[string]int{
	"debug": logs.LevelDebug,
	"info":  logs.LevelInformational,
	"warn":  logs.LevelWarning,
	"error": logs.LevelError,
}

// fileLogConfig mirrors the JSON the beego file adapter reads.
type fileLogConfig struct {
	Filename string `json:"filename"`
	Level    int    `json:"level"`
	Daily    bool   `json:"daily"`
	MaxDays  int64  `json:"maxdays"`
	Rotate   bool   `json:"rotate"`
	Perm     string `json:"perm"`
}

func fileAdapterConfig(file string, level, maxDays int) (string, error) {
	b, err := json.Marshal(fileLogConfig{
		Filename: file,
		Level:    level,
		Daily:    true,
		MaxDays:  int64(maxDays),
		Rotate:   maxDays > 0,
		Perm:     "0640",
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// setupLogger points the package logger at the console, or at a daily
// rotated file when one is given. maxDays of 0 disables rotation.
func setupLogger(level, file string, maxDays int) error {
	lvl, ok := logLevels[level]
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}
	if file == "" {
		if err := logger.SetLogger(logs.AdapterConsole); err != nil {
			return err
		}
	} else {
		cfg, err := fileAdapterConfig(file, lvl, maxDays)
		if err != nil {
			return err
		}
		if err := logger.SetLogger(logs.AdapterFile, cfg); err != nil {
			return err
		}
	}
	logger.SetLevel(lvl)
	return nil
}
