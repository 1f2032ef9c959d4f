// Package logging 提供带级别的日志输出
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger 带级别的日志器，Debug 仅在 verbose 模式下输出
type Logger struct {
	info    *log.Logger
	err     *log.Logger
	debug   *log.Logger
	verbose bool
}

// New 创建日志器
func New(w io.Writer, verbose bool) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		info:    log.New(w, "INFO: ", flags),
		err:     log.New(w, "ERROR: ", flags),
		debug:   log.New(w, "DEBUG: ", flags),
		verbose: verbose,
	}
}

// Default 输出到标准错误的日志器
func Default(verbose bool) *Logger {
	return New(os.Stderr, verbose)
}

// Discard 丢弃所有输出
func Discard() *Logger {
	return New(io.Discard, false)
}

// Info 记录信息
func (l *Logger) Info(format string, v ...any) {
	l.info.Output(2, fmt.Sprintf(format, v...))
}

// Error 记录错误
func (l *Logger) Error(format string, v ...any) {
	l.err.Output(2, fmt.Sprintf(format, v...))
}

// Debug 记录调试信息
func (l *Logger) Debug(format string, v ...any) {
	if !l.verbose {
		return
	}
	l.debug.Output(2, fmt.Sprintf(format, v...))
}

// Verbose 是否输出调试信息
func (l *Logger) Verbose() bool {
	return l.verbose
}
