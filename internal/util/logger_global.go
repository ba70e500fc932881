package util

import "sync"

var (
	globalMu     sync.RWMutex
	globalLogger LoggerInterface
)

// InitLogger wires the package-level Log helpers to a shared logger. The
// first call wins, so commands and tests can both initialize without
// coordinating; before any call the helpers discard their input.
func InitLogger(logLevel, logFile string, debugToConsole bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewLogger(logLevel, logFile, debugToConsole)
	}
}

func global() LoggerInterface {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func LogDebug(msg string) {
	if l := global(); l != nil {
		l.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogInfo(msg string) {
	if l := global(); l != nil {
		l.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Infof(format, args...)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if l := global(); l != nil {
		l.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Errorf(format, args...)
	}
}
