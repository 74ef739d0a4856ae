package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	from   string
	to     []string
	body   bytes.Buffer
	closed bool
}

func (s *recordingSender) Send(from string, to []string, msg io.WriterTo) error {
	s.from, s.to = from, to
	_, err := msg.WriteTo(&s.body)
	return err
}

func (s *recordingSender) Close() error {
	s.closed = true
	return nil
}

func TestNewWelcomeMailer_DisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewWelcomeMailer(config.SMTPConfig{}, logger.NewNop()))
}

func TestWelcomeMailer_Send(t *testing.T) {
	rec := &recordingSender{}
	m := newWelcomeMailer("shop@example.com", func() (gomail.SendCloser, error) { return rec, nil }, logger.NewNop())

	require.NoError(t, m.SendWelcome(context.Background(), "ann@example.com", "ann"))
	assert.Equal(t, "shop@example.com", rec.from)
	assert.Equal(t, []string{"ann@example.com"}, rec.to)
	assert.Contains(t, rec.body.String(), "Hello ann")
	assert.True(t, rec.closed)
}

func TestWelcomeMailer_DialFailure(t *testing.T) {
	m := newWelcomeMailer("shop@example.com", func() (gomail.SendCloser, error) {
		return nil, errors.New("connection refused")
	}, logger.NewNop())

	assert.Error(t, m.SendWelcome(context.Background(), "ann@example.com", "ann"))
	assert.Error(t, m.SendWelcome(context.Background(), "", "ann"))
}
