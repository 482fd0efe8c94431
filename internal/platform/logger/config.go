package logger

import "strings"

type LoggerConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
	Output string // "stdout", "stderr" or a file path
}

func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

func (c *LoggerConfig) normalized() *LoggerConfig {
	out := *c
	out.Level = strings.ToLower(strings.TrimSpace(out.Level))
	if out.Level == "" {
		out.Level = "info"
	}
	out.Format = strings.ToLower(strings.TrimSpace(out.Format))
	if out.Format == "text" {
		out.Format = "console"
	}
	if out.Format != "console" {
		out.Format = "json"
	}
	if out.Output == "" {
		out.Output = "stdout"
	}
	return &out
}
