package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts 5-field and 6-field expressions plus @descriptors.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

var intervalRegex = regexp.MustCompile(`^every\s+(\d+)\s*([a-z]+)$`)

var intervalUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
}

const (
	minInterval = time.Second
	maxInterval = 365 * 24 * time.Hour
)

// ParseCron parses a schedule expression and returns a cron.Schedule.
// Accepted forms: standard cron ("0 2 * * *", optionally with a seconds
// field), @descriptors ("@hourly", "@every 5m"), and plain intervals
// ("every 5m", "every 30 seconds").
func ParseCron(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("cron expression cannot be empty")
	}

	if strings.HasPrefix(strings.ToLower(expr), "every ") {
		schedule, err := parseInterval(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid interval expression %q: %w", expr, err)
		}
		return schedule, nil
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

func parseInterval(expr string) (cron.Schedule, error) {
	matches := intervalRegex.FindStringSubmatch(strings.ToLower(expr))
	if matches == nil {
		return nil, fmt.Errorf("expected 'every <number> <unit>', e.g. 'every 5m'")
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("interval value must be a positive integer")
	}

	unit, ok := intervalUnits[matches[2]]
	if !ok {
		return nil, fmt.Errorf("unsupported time unit %q", matches[2])
	}

	d := time.Duration(value) * unit
	if d < minInterval {
		return nil, fmt.Errorf("interval must be at least %s", minInterval)
	}
	if d > maxInterval {
		return nil, fmt.Errorf("interval cannot exceed 1 year")
	}

	return cron.Every(d), nil
}

// NextRun calculates the next fire time for an expression from the
// given time.
func NextRun(expr string, from time.Time) (time.Time, error) {
	schedule, err := ParseCron(expr)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}
