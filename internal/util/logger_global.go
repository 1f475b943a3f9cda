package util

import (
	"sync"
)

var (
	globalLogger LoggerInterface = &Logger{level: LevelError + 1}
	loggerMu     sync.RWMutex
)

// InitLogger replaces the global logger. Until it is called, logging is discarded.
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	logger, err := NewLogger(logLevel, logFile, debugToConsole)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger installs l as the global logger
func SetLogger(l LoggerInterface) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = l
}

// Log returns the global logger for field-based logging
func Log() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

func LogInfo(msg string) { Log().Info(msg) }
func LogInfof(format string, args ...interface{}) { Log().Infof(format, args...) }
func LogDebug(msg string) { Log().Debug(msg) }
func LogDebugf(format string, args ...interface{}) { Log().Debugf(format, args...) }
func LogWarn(msg string) { Log().Warn(msg) }
func LogWarnf(format string, args ...interface{}) { Log().Warnf(format, args...) }
func LogError(msg string) { Log().Error(msg) }
func LogErrorf(format string, args ...interface{}) { Log().Errorf(format, args...) }
