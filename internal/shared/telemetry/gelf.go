package telemetry

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"time"
)

// GELFWriter forwards JSON log lines to a Graylog input over UDP.
// It implements io.Writer so it can sit behind io.MultiWriter next to stdout.
type GELFWriter struct {
	conn     net.Conn
	hostname string
	service  string
}

// NewGELFWriter dials addr (for example "127.0.0.1:12201").
func NewGELFWriter(addr, service string) (*GELFWriter, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service
	}
	return &GELFWriter{conn: conn, hostname: hostname, service: service}, nil
}

// Write sends one GELF message per JSON line. Delivery is fire-and-forget.
func (w *GELFWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimSpace(p), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		payload, err := json.Marshal(w.message(line))
		if err != nil {
			continue
		}
		_, _ = w.conn.Write(payload)
	}
	return len(p), nil
}

// Close releases the UDP socket.
func (w *GELFWriter) Close() error {
	return w.conn.Close()
}

func (w *GELFWriter) message(line []byte) map[string]any {
	var entry map[string]any
	if err := json.Unmarshal(line, &entry); err != nil {
		entry = map[string]any{"msg": string(line)}
	}

	short, _ := entry["msg"].(string)
	level := 6
	if lvl, _ := entry["level"].(string); lvl == "error" {
		level = 3
	}

	msg := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         level,
		"_service":      w.service,
	}
	for k, v := range entry {
		switch k {
		case "msg", "level", "ts", "id":
			continue
		}
		msg["_"+k] = v
	}
	return msg
}
