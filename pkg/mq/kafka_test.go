package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/pkg/config"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestSendMessage(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, config: config.KafkaConfig{Topic: "storefront.events"}}

	err := p.SendMessage(context.Background(), p.Topic(), "s1", map[string]int{"count": 2},
		map[string]string{"event_type": "cart.item.added"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "storefront.events", msg.Topic)
	assert.Equal(t, "s1", string(msg.Key))

	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, 2, body["count"])

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "cart.item.added", string(msg.Headers[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestSendMessageErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaProducer{writer: w}

	assert.Error(t, p.SendMessage(context.Background(), "t", "k", map[string]int{}, nil))
	assert.Error(t, p.SendMessage(context.Background(), "t", "k", make(chan int), nil), "unencodable value")
}

func TestNewMessageSortsHeaders(t *testing.T) {
	msg, err := newMessage("t", "k", "v", map[string]string{"z": "1", "a": "2", "m": "3"})
	require.NoError(t, err)

	keys := make([]string, 0, len(msg.Headers))
	for _, h := range msg.Headers {
		keys = append(keys, h.Key)
	}
	assert.Equal(t, []string{"a", "m", "z"}, keys)
	assert.Equal(t, `"v"`, string(msg.Value))
}
