// Package oxidb speaks the oxidb-server wire protocol.
//
// Every message is a 4-byte little-endian length followed by a JSON object.
// The server replies {"ok": true, "data": ...} or {"ok": false, "error": "..."}.
package oxidb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBroken is returned by a client whose connection was dropped after a
// failed round trip. The stream position is unknown, so it is never reused.
var ErrBroken = errors.New("oxidb: connection broken")

// Client is one connection to oxidb-server. Requests are serialized on the
// connection, so a Client is safe for concurrent use.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	timeout time.Duration
	broken  atomic.Bool
}

// Dial connects to addr. timeout bounds the dial and caps every request round
// trip that has no earlier context deadline.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("oxidb: connect to %s: %w", addr, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

func (c *Client) Close() error {
	c.broken.Store(true)
	return c.conn.Close()
}

// Broken reports whether the client was closed or lost sync with the server.
func (c *Client) Broken() bool {
	return c.broken.Load()
}

// abandon closes the connection after a failure mid round trip. A late reply
// would otherwise be read as the answer to the next command.
func (c *Client) abandon() {
	c.broken.Store(true)
	_ = c.conn.Close()
}

func writeFrame(w io.Writer, data []byte) error {
	buf := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[4:], data)
	_, err := w.Write(buf)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("oxidb: read length: %w", err)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(hdr[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("oxidb: read payload: %w", err)
	}
	return payload, nil
}

// command is a single request object.
type command map[string]any

func newCommand(name, collection string) command {
	cmd := command{"cmd": name}
	if collection != "" {
		cmd["collection"] = collection
	}
	return cmd
}

type reply struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) deadline(ctx context.Context) (time.Time, bool) {
	d, ok := ctx.Deadline()
	if c.timeout > 0 {
		if limit := time.Now().Add(c.timeout); !ok || limit.Before(d) {
			return limit, true
		}
	}
	return d, ok
}

// do sends cmd and decodes the reply data into out. A null reply leaves out
// untouched.
func (c *Client) do(ctx context.Context, cmd command, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("oxidb: marshal %v: %w", cmd["cmd"], err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken.Load() {
		return ErrBroken
	}
	if d, ok := c.deadline(ctx); ok {
		_ = c.conn.SetDeadline(d)
		defer c.conn.SetDeadline(time.Time{})
	}
	if err := writeFrame(c.conn, body); err != nil {
		c.abandon()
		return fmt.Errorf("oxidb: send %v: %w", cmd["cmd"], err)
	}
	raw, err := readFrame(c.conn)
	if err != nil {
		c.abandon()
		return err
	}

	var r reply
	if err := json.Unmarshal(raw, &r); err != nil {
		c.abandon()
		return fmt.Errorf("oxidb: unmarshal reply: %w", err)
	}
	if !r.OK {
		msg := r.Error
		if msg == "" {
			msg = "unknown error"
		}
		return &Error{Msg: msg}
	}
	if out == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("oxidb: decode %v reply: %w", cmd["cmd"], err)
	}
	return nil
}

// Ping returns the server's "pong".
func (c *Client) Ping(ctx context.Context) (string, error) {
	var pong string
	err := c.do(ctx, newCommand("ping", ""), &pong)
	return pong, err
}

// Insert stores doc and returns the reply data, which carries the new "id".
func (c *Client) Insert(ctx context.Context, collection string, doc map[string]any) (map[string]any, error) {
	cmd := newCommand("insert", collection)
	cmd["doc"] = doc
	var res map[string]any
	if err := c.do(ctx, cmd, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// FindOptions holds optional parameters for Find.
type FindOptions struct {
	Sort  map[string]any
	Skip  *int
	Limit *int
}

// Find returns documents matching query. Non-object entries in the reply are
// skipped.
func (c *Client) Find(ctx context.Context, collection string, query map[string]any, opts *FindOptions) ([]map[string]any, error) {
	cmd := newCommand("find", collection)
	cmd["query"] = query
	if opts != nil {
		if opts.Sort != nil {
			cmd["sort"] = opts.Sort
		}
		if opts.Skip != nil {
			cmd["skip"] = *opts.Skip
		}
		if opts.Limit != nil {
			cmd["limit"] = *opts.Limit
		}
	}
	var raw []any
	if err := c.do(ctx, cmd, &raw); err != nil {
		return nil, err
	}
	docs := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			docs = append(docs, m)
		}
	}
	return docs, nil
}

// FindOne returns the first document matching query, or nil.
func (c *Client) FindOne(ctx context.Context, collection string, query map[string]any) (map[string]any, error) {
	cmd := newCommand("find_one", collection)
	cmd["query"] = query
	var doc map[string]any
	if err := c.do(ctx, cmd, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateOne updates at most one document and reports how many changed.
func (c *Client) UpdateOne(ctx context.Context, collection string, query, update map[string]any) (int, error) {
	cmd := newCommand("update_one", collection)
	cmd["query"] = query
	cmd["update"] = update
	var res struct {
		Modified int `json:"modified"`
	}
	err := c.do(ctx, cmd, &res)
	return res.Modified, err
}

func (c *Client) Count(ctx context.Context, collection string, query map[string]any) (int, error) {
	cmd := newCommand("count", collection)
	cmd["query"] = query
	var res struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, cmd, &res)
	return res.Count, err
}

func (c *Client) CreateIndex(ctx context.Context, collection, field string) error {
	cmd := newCommand("create_index", collection)
	cmd["field"] = field
	return c.do(ctx, cmd, nil)
}

func (c *Client) CreateUniqueIndex(ctx context.Context, collection, field string) error {
	cmd := newCommand("create_unique_index", collection)
	cmd["field"] = field
	return c.do(ctx, cmd, nil)
}
