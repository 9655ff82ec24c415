package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetString returns the variable, or the first default when it is unset or empty.
func GetString(name string, defaultValue ...string) string {
	value := os.Getenv(name)
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// MustGetString panics when the variable is unset or empty.
func MustGetString(name string) string {
	value := os.Getenv(name)
	if value == "" {
		panic(fmt.Sprintf("%s can't be empty", name))
	}
	return value
}

// GetInt returns the variable as an int, or the first default when it does not parse.
func GetInt(name string, defaultValue ...int) int {
	return parseOr(name, strconv.Atoi, defaultValue)
}

// MustGetInt panics when the variable is not an int.
func MustGetInt(name string) int {
	return mustParse(name, "int", strconv.Atoi)
}

func GetBool(name string, defaultValue ...bool) bool {
	return parseOr(name, strconv.ParseBool, defaultValue)
}

func MustGetBool(name string) bool {
	return mustParse(name, "boolean (true or false)", strconv.ParseBool)
}

// GetDuration accepts Go duration strings ("500ms", "30s") or a bare number of seconds.
func GetDuration(name string, defaultValue ...time.Duration) time.Duration {
	return parseOr(name, parseDuration, defaultValue)
}

// GetStringSlice splits a comma separated variable, trimming blanks.
func GetStringSlice(name string, defaultValue ...string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parseDuration(raw string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func parseOr[T any](name string, parse func(string) (T, error), defaultValue []T) T {
	value, err := parse(os.Getenv(name))
	if err != nil && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func mustParse[T any](name, kind string, parse func(string) (T, error)) T {
	value, err := parse(os.Getenv(name))
	if err != nil {
		panic(fmt.Sprintf("%s must contain a %s value!", name, kind))
	}
	return value
}
