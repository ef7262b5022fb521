package lib

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	LevelDebug = iota
	LevelInfo
	LevelWarning
	LevelError
)

var levels = map[string]int{
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARNING":  LevelWarning,
	"WARN":     LevelWarning,
	"ERROR":    LevelError,
	"CRITICAL": LevelError,
}

type LoggerStruct struct {
	Print    func(args ...interface{})
	Flush    func()
	disabled bool
	level    int
	color    bool
}

var Logger = &LoggerStruct{
	Print: func(args ...interface{}) {
		fmt.Fprint(os.Stderr, args...)
	},
	Flush:    func() {},
	disabled: strings.ToLower(os.Getenv("LOGGING") + " ")[:1] == "n",
	level:    ParseLevel(os.Getenv("LOG_LEVEL")),
	color:    isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
}

// ParseLevel maps LOG_LEVEL names to a level, defaulting to info.
func ParseLevel(name string) int {
	level, ok := levels[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return LevelInfo
	}
	return level
}

func (l *LoggerStruct) SetLevel(name string) {
	l.level = ParseLevel(name)
}

func (l *LoggerStruct) IsDebug() bool {
	return l.level <= LevelDebug
}

func caller() string {
	_, file, line, _ := runtime.Caller(2)
	parts := strings.Split(file, "/")
	if len(parts) >= 2 {
		parts = parts[len(parts)-2:]
	}
	file = strings.Join(parts, "/")
	return fmt.Sprintf("%s:%d: ", file, line)
}

func (l *LoggerStruct) line(prefix string, v []interface{}) []interface{} {
	var xs []string
	for _, x := range v {
		xs = append(xs, fmt.Sprint(x))
	}
	msg := strings.Join(xs, " ")
	if l.color && strings.HasPrefix(msg, "error:") {
		msg = "\033[31merror:\033[0m" + strings.TrimPrefix(msg, "error:")
	}
	return []interface{}{prefix, msg, "\n"}
}

func (l *LoggerStruct) Println(v ...interface{}) {
	if !l.disabled {
		l.Print(l.line(caller(), v)...)
	}
}

func (l *LoggerStruct) Printf(format string, v ...interface{}) {
	if !l.disabled {
		l.Print(fmt.Sprintf(caller()+format, v...))
	}
}

func (l *LoggerStruct) Debug(v ...interface{}) {
	if !l.disabled && l.IsDebug() {
		l.Print(l.line(caller(), v)...)
	}
}

func (l *LoggerStruct) Debugf(format string, v ...interface{}) {
	if !l.disabled && l.IsDebug() {
		l.Print(fmt.Sprintf(caller()+format, v...))
	}
}

func (l *LoggerStruct) Fatal(v ...interface{}) {
	l.Print(l.line(caller(), v)...)
	l.Flush()
	os.Exit(1)
}

func (l *LoggerStruct) Fatalf(format string, v ...interface{}) {
	l.Print(fmt.Sprintf(caller()+format, v...))
	l.Flush()
	os.Exit(1)
}
