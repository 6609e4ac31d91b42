// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/shici/internal/platform/events"
)

func newTestNATS(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping nats container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2-alpine",
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForListeningPort("4222/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	return fmt.Sprintf("nats://%s:%s", host, port.Port())
}

/*
TestNATSPublisher_Publish verifies subject naming and JSON payloads.
*/
func TestNATSPublisher_Publish(t *testing.T) {
	url := newTestNATS(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	publisher, err := events.Connect(url, "shici.tag", logger)
	require.NoError(t, err)
	defer publisher.Close()

	subscriber, err := nats.Connect(url)
	require.NoError(t, err)
	defer subscriber.Close()

	sub, err := subscriber.SubscribeSync("shici.tag.>")
	require.NoError(t, err)
	require.NoError(t, subscriber.Flush())

	require.NoError(t, publisher.Ping())
	require.NoError(t, publisher.Publish(context.Background(), "created", map[string]any{"id": 7}))

	msg, err := sub.NextMsg(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "shici.tag.created", msg.Subject)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &body))
	assert.EqualValues(t, 7, body["id"])
}

/*
TestNATSPublisher_CancelledContext ensures nothing is sent after cancellation.
*/
func TestNATSPublisher_CancelledContext(t *testing.T) {
	url := newTestNATS(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	publisher, err := events.Connect(url, "shici.tag", logger)
	require.NoError(t, err)
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, publisher.Publish(ctx, "deleted", map[string]any{"id": 1}), context.Canceled)
}

/*
TestDiscard_Publish checks the no-op publisher.
*/
func TestDiscard_Publish(t *testing.T) {
	assert.NoError(t, events.Discard{}.Publish(context.Background(), "created", nil))
}
