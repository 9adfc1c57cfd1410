package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	outMu sync.Mutex
	out   io.Writer
)

// SetOutput redirects log lines to w. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write("error", msg, fields)
}

func write(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg

	outMu.Lock()
	defer outMu.Unlock()
	w := out
	if w == nil {
		w = os.Stdout
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(w, `{"ts":"%s","level":"error","msg":"logger marshal failed","err":%q}`+"\n", time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(w, string(data))
}
