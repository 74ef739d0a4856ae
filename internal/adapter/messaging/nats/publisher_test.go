package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type fakeConn struct {
	sent    []*nats.Msg
	failErr error
	closed  bool
	drained bool
}

func (c *fakeConn) PublishMsg(msg *nats.Msg) error {
	if c.failErr != nil {
		return c.failErr
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) Drain() error   { c.drained = true; return nil }
func (c *fakeConn) IsClosed() bool { return c.closed }
func (c *fakeConn) Close()         { c.closed = true }

func TestPublisher_PublishCarriesTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	defer span.End()

	conn := &fakeConn{}
	p := NewPublisher(conn, logger.NewNop())

	err := p.Publish(ctx, domain.SubjectOfferPublished, domain.OfferEvent{OfferID: "o1", OwnerID: "a1", Price: 50})
	require.NoError(t, err)
	require.Len(t, conn.sent, 1)

	msg := conn.sent[0]
	assert.Equal(t, domain.SubjectOfferPublished, msg.Subject)
	assert.NotEmpty(t, msg.Header.Get("traceparent"))

	var evt domain.OfferEvent
	require.NoError(t, json.Unmarshal(msg.Data, &evt))
	assert.Equal(t, "o1", evt.OfferID)
	assert.Equal(t, 50, evt.Price)
}

func TestPublisher_Errors(t *testing.T) {
	conn := &fakeConn{failErr: errors.New("no responders")}
	p := NewPublisher(conn, logger.NewNop())

	assert.Error(t, p.Publish(context.Background(), "x", map[string]string{"a": "b"}))
	assert.Error(t, p.Publish(context.Background(), "x", make(chan int)))

	p.Close()
	assert.True(t, conn.drained)
	assert.True(t, conn.closed)
}
