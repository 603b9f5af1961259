// Package config handles application configuration and setup
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/mode"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ApplyQuirks applies a comma separated list of quirk overrides like
// "draw-wrap,!vip-jump". A name enables the quirk, a leading ! disables it.
func ApplyQuirks(quirks *mode.Quirks, list string) error {
	for _, item := range splitList(list) {
		value := true
		name := item
		if strings.HasPrefix(item, "!") {
			value = false
			name = item[1:]
		}
		if err := quirks.Set(name, value); err != nil {
			return fmt.Errorf("applying quirk overrides: %w", err)
		}
	}
	return nil
}

// ParseKeys parses a comma separated list of hexadecimal keypad keys.
func ParseKeys(list string) ([]int, error) {
	items := splitList(list)
	keys := make([]int, 0, len(items))
	for _, item := range items {
		key, err := strconv.ParseUint(item, 16, 8)
		if err != nil || key > 0xF {
			return nil, fmt.Errorf("invalid key '%s', valid keys are 0-9 and a-f", item)
		}
		keys = append(keys, int(key))
	}
	return keys, nil
}

func splitList(list string) []string {
	var items []string
	for item := range strings.SplitSeq(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
