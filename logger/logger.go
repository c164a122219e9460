// Package logger declares the subsystem loggers shared across this module.
// This module is a library with no daemon lifecycle: the backend
// starts with no writers attached, so logging is silent until a host
// process calls InitLogRotator or AddWriter.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jrick/logrotate/rotator"
	"github.com/kaspanet/kaspa-tx-sdk/logs"
)

// backendLog is the logging backend every subsystem logger below is created
// from.
var backendLog = logs.NewBackend(nil)

// LogRotator is the optional file-rotation output a host process can attach
// with InitLogRotator.
var LogRotator *rotator.Rotator

// Subsystem loggers. New subsystems should be added here and to
// subsystemLoggers below. These are exported so every package in this
// module logs through the same handles.
var (
	HASH = backendLog.Logger("HASH")
	SCRP = backendLog.Logger("SCRP")
	MASS = backendLog.Logger("MASS")
	GEN  = backendLog.Logger("GEN")
)

// SubsystemTags is an enum of all subsystem tags.
var SubsystemTags = struct {
	HASH, SCRP, MASS, GEN string
}{
	HASH: "HASH",
	SCRP: "SCRP",
	MASS: "MASS",
	GEN:  "GEN",
}

var subsystemLoggers = map[string]*logs.Logger{
	SubsystemTags.HASH: HASH,
	SubsystemTags.SCRP: SCRP,
	SubsystemTags.MASS: MASS,
	SubsystemTags.GEN:  GEN,
}

// InitLogRotator initializes LogRotator to write to logFile, creating roll
// files in the same directory, and attaches it to every subsystem logger.
// Hosting applications call this; the core itself never does.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %s", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %s", err)
	}
	LogRotator = r
	backendLog.AddWriter(logs.NewAllLevelsBackendWriter(r))
	return nil
}

// SetLogLevel sets the logging level for the given subsystem tag. Invalid
// subsystems are ignored.
func SetLogLevel(subsystemID string, level logs.Level) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for every subsystem logger.
func SetLogLevels(level logs.Level) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, level)
	}
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// Get returns the logger for a specific subsystem.
func Get(tag string) (logger *logs.Logger, ok bool) {
	logger, ok = subsystemLoggers[tag]
	return
}

// ParseAndSetDebugLevels attempts to parse the specified debug level string
// and set the levels accordingly. The string is either a single bare level
// ("debug") applied to every subsystem, or a comma-separated list of
// SUBSYS=level pairs ("SCRP=trace,GEN=debug").
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		level, ok := levelFromString(debugLevel)
		if !ok {
			return fmt.Errorf("the specified debug level [%s] is invalid", debugLevel)
		}
		SetLogLevels(level)
		return nil
	}

	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(logLevelPair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%s]", logLevelPair)
		}
		subsysID, levelStr := fields[0], fields[1]

		if _, exists := Get(subsysID); !exists {
			return fmt.Errorf("the specified subsystem [%s] is invalid -- supported subsystems %s",
				subsysID, strings.Join(SupportedSubsystems(), ", "))
		}

		level, ok := levelFromString(levelStr)
		if !ok {
			return fmt.Errorf("the specified debug level [%s] is invalid", levelStr)
		}
		SetLogLevel(subsysID, level)
	}

	return nil
}

func levelFromString(s string) (logs.Level, bool) {
	switch s {
	case "trace":
		return logs.LevelTrace, true
	case "debug":
		return logs.LevelDebug, true
	case "info":
		return logs.LevelInfo, true
	case "warn":
		return logs.LevelWarn, true
	case "error":
		return logs.LevelError, true
	}
	return 0, false
}
