// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package iniwire transfers INI documents over WebSocket connections. Each
// document is sent as a single text message in the format produced by
// ini.Document.MarshalText.
package iniwire

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourbase/inidoc/ini"
	"github.com/yourbase/inidoc/retry"
	"zombiezen.com/go/log"
)

const (
	// closeTimeout bounds how long Handler waits to send the close frame.
	closeTimeout = 5 * time.Second

	defaultBackoff = 100 * time.Millisecond
	maxBackoff     = 10 * time.Second
)

// Send writes doc to the connection as one text message. The document is
// streamed into the message frames as it is serialized.
func Send(ctx context.Context, conn *websocket.Conn, doc *ini.Document) error {
	if conn == nil {
		panic("iniwire.Send(ctx, nil, ...)")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send ini document: %w", err)
	}
	// conn.SetWriteDeadline is not safe to call during a write, so the
	// deadline is set on the network connection instead.
	release := watch(ctx, func() { conn.NetConn().SetWriteDeadline(time.Now()) })
	err := send(conn, doc)
	release()
	if err := expired(ctx, err); err != nil {
		return fmt.Errorf("send ini document: %w", err)
	}
	return nil
}

func send(conn *websocket.Conn, doc *ini.Document) error {
	w, err := conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Receive parses the next message from the connection as an INI document.
// The message is read line by line as it arrives. Nil options are treated
// identically as passing the zero value.
//
// Messages are always UTF-8 text. If opts.Encoding is set, it is not used
// for decoding, but the returned document uses it for Save.
func Receive(ctx context.Context, conn *websocket.Conn, opts *ini.ParseOptions) (*ini.Document, error) {
	if conn == nil {
		panic("iniwire.Receive(ctx, nil, ...)")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("receive ini document: %w", err)
	}
	release := watch(ctx, func() { conn.SetReadDeadline(time.Now()) })
	doc, err := receive(ctx, conn, opts)
	release()
	if err := expired(ctx, err); err != nil {
		return nil, fmt.Errorf("receive ini document: %w", err)
	}
	return doc, nil
}

func receive(ctx context.Context, conn *websocket.Conn, opts *ini.ParseOptions) (*ini.Document, error) {
	typ, r, err := conn.NextReader()
	if err != nil {
		return nil, err
	}
	if typ != websocket.TextMessage {
		return nil, fmt.Errorf("got message type %d, want text", typ)
	}
	var textOpts ini.ParseOptions
	if opts != nil {
		textOpts = *opts
	}
	enc := textOpts.Encoding
	textOpts.Encoding = nil
	doc, err := ini.Parse(ctx, r, &textOpts)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		doc.SetEncoding(enc)
	}
	return doc, nil
}

// Fetch dials the ws:// or wss:// URL and receives one document. Failed
// dials are retried according to strategy until ctx is Done. A nil strategy
// backs off exponentially from defaultBackoff up to maxBackoff. A handshake
// rejected with a client error status is not retried.
func Fetch(ctx context.Context, rawURL string, strategy retry.BackoffStrategy, opts *ini.ParseOptions) (*ini.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch ini document: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("fetch ini document: %s: scheme must be ws or wss", rawURL)
	}
	if strategy == nil {
		strategy = &retry.Exponential{Initial: defaultBackoff, Max: maxBackoff}
	}
	var conn *websocket.Conn
	err = retry.Do(ctx, "dialing "+rawURL, strategy, func() error {
		c, resp, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
		if err != nil {
			if resp != nil {
				err = fmt.Errorf("%w (http status %s)", err, resp.Status)
				if isPermanentStatus(resp.StatusCode) {
					return retry.Permanent(err)
				}
			}
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch ini document: %w", err)
	}
	defer conn.Close()
	doc, err := Receive(ctx, conn, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch ini document from %s: %w", rawURL, err)
	}
	return doc, nil
}

// isPermanentStatus reports whether a handshake response status means that
// dialing again will not help.
func isPermanentStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	default:
		return 400 <= code && code < 500
	}
}

// Handler is an http.Handler that upgrades each request to a WebSocket,
// sends one document and closes the connection.
type Handler struct {
	// Document returns the document to send for a request. The document
	// must not be modified concurrently with the Handler serializing it.
	Document func(r *http.Request) (*ini.Document, error)

	// Upgrader configures the WebSocket handshake.
	Upgrader websocket.Upgrader
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.Document(r)
	if err != nil {
		log.Errorf(ctx, "Serving ini document to %s: %v", r.RemoteAddr, err)
		http.Error(w, "document unavailable", http.StatusInternalServerError)
		return
	}
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Warnf(ctx, "Serving ini document to %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	if err := Send(ctx, conn, doc); err != nil {
		log.Warnf(ctx, "Serving ini document to %s: %v", r.RemoteAddr, err)
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout)); err != nil {
		log.Debugf(ctx, "Closing connection to %s: %v", r.RemoteAddr, err)
	}
}
