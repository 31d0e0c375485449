package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP. It implements zapcore.WriteSyncer
// and expects each Write to carry one JSON-encoded zap entry.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
	now      func() time.Time
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "ferweb-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service, now: time.Now}, nil
}

// syslog severities used by GELF.
var levels = map[string]int{
	"debug":  7,
	"info":   6,
	"warn":   4,
	"error":  3,
	"dpanic": 2,
	"panic":  2,
	"fatal":  2,
}

// Write implements io.Writer. Each call sends one GELF message.
// Lines that are not JSON are shipped verbatim at informational level.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.message(p))
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) message(p []byte) map[string]any {
	line := strings.TrimRight(string(p), "\n")
	msg := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": line,
		"timestamp":     float64(w.now().UnixNano()) / 1e9,
		"level":         6,
		"_service":      w.service,
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return msg
	}
	for k, v := range entry {
		switch k {
		case "msg":
			if s, ok := v.(string); ok && s != "" {
				msg["short_message"] = s
			}
		case "level":
			if s, ok := v.(string); ok {
				if lvl, known := levels[s]; known {
					msg["level"] = lvl
				}
			}
		case "ts":
			if ts, ok := v.(float64); ok {
				msg["timestamp"] = ts
			}
		case "stacktrace":
			msg["full_message"] = v
		case "id":
			// GELF reserves _id.
			msg["_field_id"] = v
		default:
			msg["_"+k] = v
		}
	}
	return msg
}

// Sync is a no-op; UDP datagrams are not buffered.
func (w *Writer) Sync() error { return nil }

func (w *Writer) Close() error { return w.conn.Close() }
