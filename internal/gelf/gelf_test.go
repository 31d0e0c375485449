package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func receive(t *testing.T, conn *net.UDPConn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 8192)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &msg))
	return msg
}

func TestWriteZapEntry(t *testing.T) {
	conn := listen(t)
	w, err := New(conn.LocalAddr().String(), "ferweb")
	require.NoError(t, err)
	defer w.Close()

	line := `{"level":"error","ts":1700000000.5,"msg":"insert failed","table":"solicitudes","id":"7"}` + "\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	msg := receive(t, conn)
	assert.Equal(t, "1.1", msg["version"])
	assert.Equal(t, "insert failed", msg["short_message"])
	assert.Equal(t, float64(3), msg["level"])
	assert.Equal(t, 1700000000.5, msg["timestamp"])
	assert.Equal(t, "solicitudes", msg["_table"])
	assert.Equal(t, "7", msg["_field_id"])
	assert.Equal(t, "ferweb", msg["_service"])
}

func TestWritePlainLine(t *testing.T) {
	conn := listen(t)
	w, err := New(conn.LocalAddr().String(), "ferweb")
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("plain text\n"))
	require.NoError(t, err)

	msg := receive(t, conn)
	assert.Equal(t, "plain text", msg["short_message"])
	assert.Equal(t, float64(6), msg["level"])
	assert.NoError(t, w.Sync())
}
