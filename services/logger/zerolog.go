package logsvc

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

type ZeroLogger struct {
	zl   zerolog.Logger
	exit func(code int)
}

var _ core.Logger = (*ZeroLogger)(nil) // interface compliance check

// NewZeroLogger writes human-friendly lines to a terminal and JSON lines otherwise.
func NewZeroLogger(w io.Writer, conf *core.Config) *ZeroLogger {
	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}
	if conf.TestMode {
		level = zerolog.WarnLevel
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w = zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	}
	zl := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("app", conf.AppName).
		Str("env", conf.Env).
		Logger()
	return &ZeroLogger{zl: zl, exit: os.Exit}
}

func (l *ZeroLogger) Zerolog() zerolog.Logger { return l.zl }

// log expects args of type: error | map[string]interface{} | user.User
func (l *ZeroLogger) log(evt *zerolog.Event, msg string, args []interface{}) {
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			evt = evt.Err(a)
		case map[string]interface{}:
			evt = evt.Fields(a)
		case user.User:
			evt = evt.Str("user_id", a.ID).Str("user_role", string(a.Role))
		default:
			evt = evt.Interface("extra", a)
		}
	}
	evt.Msg(msg)
}

func (l *ZeroLogger) Debug(msg string, args ...interface{}) { l.log(l.zl.Debug(), msg, args) }
func (l *ZeroLogger) Info(msg string, args ...interface{})  { l.log(l.zl.Info(), msg, args) }
func (l *ZeroLogger) Warn(msg string, args ...interface{})  { l.log(l.zl.Warn(), msg, args) }
func (l *ZeroLogger) Error(msg string, args ...interface{}) { l.log(l.zl.Error(), msg, args) }

func (l *ZeroLogger) Fatal(msg string, args ...interface{}) {
	l.log(l.zl.WithLevel(zerolog.FatalLevel), msg, args)
	l.exit(1)
}
