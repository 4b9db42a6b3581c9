// Package config loads emulator settings from .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/fifoemu/renderer"
)

// Environment variables read by Load.
const (
	EnvDebug        = "FIFOEMU_DEBUG"
	EnvRingSize     = "FIFOEMU_RING_SIZE"
	EnvTraceDB      = "FIFOEMU_TRACE_DB"
	EnvMonitor      = "FIFOEMU_MONITOR"
	EnvMonitorPort  = "FIFOEMU_MONITOR_PORT"
	EnvOpenBrowser  = "FIFOEMU_OPEN_BROWSER"
	EnvAbortOnFault = "FIFOEMU_ABORT_ON_FAULT"
)

var keys = []string{
	EnvDebug,
	EnvRingSize,
	EnvTraceDB,
	EnvMonitor,
	EnvMonitorPort,
	EnvOpenBrowser,
	EnvAbortOnFault,
}

// DefaultEnvFile is read by Load when no file is named and it exists.
const DefaultEnvFile = ".env"

// ErrInvalidValue is returned for a setting that cannot be parsed.
var ErrInvalidValue = errors.New("invalid value")

// Config holds the emulator settings.
type Config struct {
	// Debug turns handler advisories on.
	Debug bool

	// RingSize is the renderer packet ring capacity.
	RingSize int

	// TraceDB names the SQLite recording, without extension. Empty turns
	// tracing off.
	TraceDB string

	// Monitor starts the HTTP monitor on MonitorPort.
	Monitor     bool
	MonitorPort int

	// OpenBrowser opens the monitor page once it runs.
	OpenBrowser bool

	// AbortOnFault ends the process on the first handler fault. Otherwise
	// faults are collected and reported.
	AbortOnFault bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		RingSize:     renderer.DefaultRingSize,
		AbortOnFault: true,
	}
}

// Load starts from Default, applies the named .env files in order, then
// the process environment. The environment wins over files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			files = []string{DefaultEnvFile}
		}
	}

	values := make(map[string]string)

	for _, f := range files {
		read, err := godotenv.Read(f)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", f, err)
		}

		for k, v := range read {
			values[k] = v
		}
	}

	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			values[k] = v
		}
	}

	return FromMap(values)
}

// FromMap builds settings from key-value pairs. Unknown keys are ignored.
func FromMap(values map[string]string) (Config, error) {
	c := Default()

	var err error

	if c.Debug, err = boolValue(values, EnvDebug, c.Debug); err != nil {
		return Config{}, err
	}

	if c.RingSize, err = intValue(values, EnvRingSize, c.RingSize); err != nil {
		return Config{}, err
	}

	if v, ok := values[EnvTraceDB]; ok {
		c.TraceDB = v
	}

	if c.Monitor, err = boolValue(values, EnvMonitor, c.Monitor); err != nil {
		return Config{}, err
	}

	c.MonitorPort, err = intValue(values, EnvMonitorPort, c.MonitorPort)
	if err != nil {
		return Config{}, err
	}

	c.OpenBrowser, err = boolValue(values, EnvOpenBrowser, c.OpenBrowser)
	if err != nil {
		return Config{}, err
	}

	c.AbortOnFault, err = boolValue(values, EnvAbortOnFault, c.AbortOnFault)
	if err != nil {
		return Config{}, err
	}

	return c, c.Validate()
}

// Validate checks the settings for values no component accepts.
func (c Config) Validate() error {
	if c.RingSize < 0 {
		return fmt.Errorf("%w: %s %d", ErrInvalidValue, EnvRingSize, c.RingSize)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("%w: %s %d",
			ErrInvalidValue, EnvMonitorPort, c.MonitorPort)
	}

	return nil
}

func boolValue(values map[string]string, key string, def bool) (bool, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s %q", ErrInvalidValue, key, v)
	}

	return b, nil
}

func intValue(values map[string]string, key string, def int) (int, error) {
	v, ok := values[key]
	if !ok || v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s %q", ErrInvalidValue, key, v)
	}

	return n, nil
}
