package logging

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/camsort/internal/term"
)

const timestampLayout = "2006-01-02 15:04:05"

// lineFormatter renders "<ts> [LABEL] message\n". With color set the label
// tag is wrapped in its ANSI color.
type lineFormatter struct {
	color bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	label, _ := e.Data[labelField].(string)
	if label == "" {
		label = levelLabel(e.Level)
	}
	tag := "[" + label + "]"
	if f.color {
		tag = labelColor(label) + tag + term.NC
	}
	line := e.Time.Format(timestampLayout) + " " + tag + " " + e.Message + "\n"
	return []byte(line), nil
}

func levelLabel(lv logrus.Level) string {
	switch lv {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

func labelColor(label string) string {
	switch label {
	case "SUCCESS":
		return term.Green
	case "SKIP":
		return term.Magenta
	case "WARN":
		return term.Yellow
	case "ERROR":
		return term.Red
	case "DEBUG":
		return term.Cyan
	default:
		return term.Blue
	}
}

// writerHook sends entries of the given levels to out using formatter.
// The base logger writes to io.Discard; every visible line comes from a hook.
type writerHook struct {
	out       io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func (h *writerHook) Levels() []logrus.Level { return h.levels }

func (h *writerHook) Fire(e *logrus.Entry) error {
	b, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.out.Write(b)
	return err
}
