package logger

import (
	"fmt"
	"log"
	"os"
)

// Level orders severities; messages below the configured level are dropped.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

var levelTags = map[Level]string{
	DEBUG:   "DEBUG",
	INFO:    "INFO",
	WARNING: "WARN",
	ERROR:   "ERROR",
}

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type levelLogger struct {
	level Level
	out   *log.Logger
}

func NewLogger(level Level) *levelLogger {
	return &levelLogger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *levelLogger) logf(level Level, msg string, a ...any) {
	if level < l.level {
		return
	}

	l.out.Printf("[%s] %s", levelTags[level], fmt.Sprintf(msg, a...))
}

func (l *levelLogger) Debugf(msg string, a ...any) { l.logf(DEBUG, msg, a...) }
func (l *levelLogger) Infof(msg string, a ...any)  { l.logf(INFO, msg, a...) }
func (l *levelLogger) Warnf(msg string, a ...any)  { l.logf(WARNING, msg, a...) }
func (l *levelLogger) Errorf(msg string, a ...any) { l.logf(ERROR, msg, a...) }
