// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events publishes domain change notifications to NATS.

Subjects are "<prefix>.<action>", e.g. "shici.tag.created". Payloads are JSON.
Publishing is fire-and-forget core NATS; consumers that need durability
should put a JetStream stream over the subject prefix.
*/
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Publisher sends a JSON-encoded payload for an action.
type Publisher interface {
	Publish(ctx context.Context, action string, payload any) error
}

// NATSPublisher implements [Publisher] on a core NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// Connect dials NATS and returns a publisher for subjects under prefix.
func Connect(url, prefix string, logger *slog.Logger) (*NATSPublisher, error) {
	options := []nats.Option{
		nats.Name("shici-api"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			logger.Info("nats_reconnected", slog.String("url", conn.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("events: failed to connect to NATS: %w", err)
	}

	logger.Info("nats connected", slog.String("url", conn.ConnectedUrl()), slog.String("prefix", prefix))
	return NewNATSPublisher(conn, prefix), nil
}

// NewNATSPublisher wraps an existing connection.
func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Publish implements [Publisher].
func (publisher *NATSPublisher) Publish(ctx context.Context, action string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", action, err)
	}

	subject := publisher.prefix + "." + action
	if err := publisher.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("events: publish %s: %w", subject, err)
	}
	return nil
}

// Ping reports whether the connection is usable, for the readiness probe.
func (publisher *NATSPublisher) Ping() error {
	if !publisher.conn.IsConnected() {
		return fmt.Errorf("events: nats status %s", publisher.conn.Status())
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (publisher *NATSPublisher) Close() error {
	if err := publisher.conn.Drain(); err != nil {
		publisher.conn.Close()
		return fmt.Errorf("events: drain: %w", err)
	}
	return nil
}

// Discard is a [Publisher] that drops every event. Used when NATS is not configured.
type Discard struct{}

// Publish implements [Publisher].
func (Discard) Publish(context.Context, string, any) error { return nil }
