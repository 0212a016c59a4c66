package lib

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogDirectory = "logs"
	LogFileName  = "amm.log"
)

/*
	This file implements a leveled, colored logger.
	Output goes to a configured writer, or to stdout plus an auto-rotating log file in the data directory.
*/

func init() {
	color.NoColor = false
}

// LoggerI defines the interface for various logging levels and formatted output
type LoggerI interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
	Print(msg string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Printf(format string, args ...interface{})
	// With() returns a logger that tags every line with the component name
	With(component string) LoggerI
}

const (
	DebugLevel int32 = -4
	InfoLevel  int32 = 0
	WarnLevel  int32 = 4
	ErrorLevel int32 = 8

	Reset = iota
	RED
	GREEN
	YELLOW
	BLUE
	GRAY
)

var _ LoggerI = &Logger{}

// level pairs a threshold with the prefix and color of its lines
type level struct {
	threshold int32
	prefix    string
	color     int
}

var (
	debug = level{DebugLevel, "DEBUG: ", BLUE}
	info  = level{InfoLevel, "INFO: ", GREEN}
	warn  = level{WarnLevel, "WARN: ", YELLOW}
	errL  = level{ErrorLevel, "ERROR: ", RED}
	fatal = level{ErrorLevel, "FATAL: ", RED}
)

// LoggerConfig holds configuration settings for the logger, including logging level and output writer
type LoggerConfig struct {
	Level int32 `json:"level"`
	Out   io.Writer
}

// Logger is the concrete implementation of LoggerI
type Logger struct {
	config    LoggerConfig
	component string
}

func (l *Logger) Debug(msg string) { l.log(debug, msg) }
func (l *Logger) Info(msg string)  { l.log(info, msg) }
func (l *Logger) Warn(msg string)  { l.log(warn, msg) }
func (l *Logger) Error(msg string) { l.log(errL, msg) }

// Print() logs a message without any specific log level or color
func (l *Logger) Print(msg string) { l.write(msg) }

// Fatal() logs an error message and terminates the program
func (l *Logger) Fatal(msg string) {
	l.log(fatal, msg)
	os.Exit(1)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(debug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(info, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(warn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(errL, fmt.Sprintf(format, args...)) }

// Fatalf() logs a formatted error message and terminates the program
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.Fatal(fmt.Sprintf(format, args...))
}

// Printf() logs a formatted message without any specific log level or color
func (l *Logger) Printf(format string, args ...interface{}) {
	l.write(fmt.Sprintf(format, args...))
}

// With() returns a copy of the logger that tags lines with a component name
func (l *Logger) With(component string) LoggerI {
	return &Logger{config: l.config, component: component}
}

// log() writes the message if the configured level allows it
func (l *Logger) log(lvl level, msg string) {
	if l.config.Level > lvl.threshold {
		return
	}
	if l.component != "" {
		msg = "[" + l.component + "] " + msg
	}
	l.write(colorString(lvl.color, lvl.prefix+msg))
}

// write() outputs the log message with a timestamp to the configured writer
func (l *Logger) write(msg string) {
	timeColored := colorString(GRAY, time.Now().Format(time.StampMilli))
	if _, err := fmt.Fprintf(l.config.Out, "%s %s\n", timeColored, msg); err != nil {
		fmt.Println(newLogError(err))
	}
}

// NewLogger() creates a new Logger; with no writer configured it logs to stdout and a rotating file under the data directory
func NewLogger(config LoggerConfig, dataDirPath ...string) LoggerI {
	if config.Out == nil {
		dir := DefaultDataDirPath()
		if len(dataDirPath) != 0 && dataDirPath[0] != "" {
			dir = dataDirPath[0]
		}
		if err := os.MkdirAll(filepath.Join(dir, LogDirectory), os.ModePerm); err != nil {
			panic(err)
		}
		config.Out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(dir, LogDirectory, LogFileName),
			MaxSize:    1, // megabyte
			MaxBackups: 100,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
	return &Logger{config: config}
}

// NewDefaultLogger() creates a Logger at the Debug level writing to stdout
func NewDefaultLogger() LoggerI {
	return NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   os.Stdout,
	})
}

// NewNullLogger() creates a Logger that discards all log output
func NewNullLogger() LoggerI {
	return NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   io.Discard,
	})
}

// colorString() returns a string with color applied, preserving line breaks
func colorString(c int, msg string) string {
	parts := strings.Split(msg, "\n")
	for i, part := range parts {
		parts[i] = cString(c, part)
	}
	return strings.Join(parts, "\n")
}

// cString() returns a string with a specific color applied
func cString(c int, msg string) string {
	switch c {
	case BLUE:
		return color.BlueString(msg)
	case RED:
		return color.RedString(msg)
	case YELLOW:
		return color.YellowString(msg)
	case GREEN:
		return color.GreenString(msg)
	case GRAY:
		return color.HiBlackString(msg)
	default:
		return color.WhiteString(msg)
	}
}
