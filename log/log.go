package log

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/astaxie/beego/logs"
)

var mlog *logs.BeeLogger

type logConfig struct {
	Filename string `json:"filename"`
	Level    int    `json:"level,omitempty"`
	Rotate   bool   `json:"rotate,omitempty"`
	Daily    bool   `json:"daily,omitempty"`
	MaxDays  int64  `json:"maxdays,omitempty"`
	MaxLines int    `json:"maxlines,omitempty"`
	MaxSize  int    `json:"maxsize,omitempty"`
}

func init() {
	mlog = logs.NewLogger()
	mlog.EnableFuncCallDepth(true)
	mlog.SetLogFuncCallDepth(3)
	mlog.SetLogger(logs.AdapterConsole, "")
}

func validLogLevel(strLevel string) (level int, ok bool) {
	ok = true
	switch strings.ToLower(strLevel) {
	case "emergency":
		level = logs.LevelEmergency
	case "alert":
		level = logs.LevelAlert
	case "critical":
		level = logs.LevelCritical
	case "error":
		level = logs.LevelError
	case "warn":
		level = logs.LevelWarn
	case "info":
		level = logs.LevelInfo
	case "debug":
		level = logs.LevelDebug
	case "notice":
		level = logs.LevelNotice
	default:
		ok = false
	}
	return
}

// Init switches logging to a rotating file under dir at the given level.
// Before Init is called output goes to the console at the default level.
func Init(dir, strLevel string) error {
	logLevel, ok := validLogLevel(strLevel)
	if !ok {
		return fmt.Errorf("mismatch the logLevel %s", strLevel)
	}
	config, err := json.Marshal(logConfig{
		Filename: path.Join(dir, "debug.log"),
		Rotate:   true,
		Daily:    true,
		Level:    logLevel,
	})
	if err != nil {
		return err
	}
	return mlog.SetLogger(logs.AdapterFile, string(config))
}

func Debug(format string, v ...interface{}) {
	mlog.Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	mlog.Info(format, v...)
}

func Warn(format string, v ...interface{}) {
	mlog.Warn(format, v...)
}

func Error(format string, v ...interface{}) {
	mlog.Error(format, v...)
}

func Trace(format string, v ...interface{}) {
	mlog.Trace(format, v...)
}

func GetLogger() *logs.BeeLogger {
	return mlog
}
