package services_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflowhq/stockflow-backend/internal/lib/smtp"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	services "github.com/stockflowhq/stockflow-backend/internal/services/sender"
)

type fakeClient struct {
	mailFrom string
	rcptTo   []string
	body     bytes.Buffer
	quit     bool
}

func (c *fakeClient) Mail(from string) error { c.mailFrom = from; return nil }
func (c *fakeClient) Rcpt(to string) error   { c.rcptTo = append(c.rcptTo, to); return nil }
func (c *fakeClient) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.body}, nil
}
func (c *fakeClient) Quit() error  { c.quit = true; return nil }
func (c *fakeClient) Close() error { return nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type fakeTransport struct {
	client     *fakeClient
	connectErr error
}

func (t *fakeTransport) Connect() (smtp.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}

func (t *fakeTransport) GetSender() string { return "noreply@stockflow.com" }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSenderService_SendWelcome(t *testing.T) {
	client := &fakeClient{}
	transport := &fakeTransport{client: client}
	svc := services.NewSenderService(transport, "StockFlow", newNoopLogger())

	err := svc.SendWelcome(&models.User{
		Username: "warehouse1",
		Email:    "warehouse1@example.com",
		FullName: "Anna Petrova",
	})
	require.NoError(t, err)

	assert.Equal(t, "noreply@stockflow.com", client.mailFrom)
	assert.Equal(t, []string{"warehouse1@example.com"}, client.rcptTo)
	assert.True(t, client.quit)

	body := client.body.String()
	assert.Contains(t, body, "Subject: Welcome to StockFlow")
	assert.Contains(t, body, "Anna Petrova")
	assert.Contains(t, body, `"warehouse1"`)
}

func TestSenderService_SendWelcome_FallsBackToUsername(t *testing.T) {
	client := &fakeClient{}
	transport := &fakeTransport{client: client}
	svc := services.NewSenderService(transport, "StockFlow", newNoopLogger())

	err := svc.SendWelcome(&models.User{
		Username: "warehouse1",
		Email:    "warehouse1@example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, client.body.String(), "Hello, warehouse1!")
}

func TestSenderService_SendWelcome_ConnectError(t *testing.T) {
	transport := &fakeTransport{connectErr: errors.New("dial failed")}
	svc := services.NewSenderService(transport, "StockFlow", newNoopLogger())

	err := svc.SendWelcome(&models.User{Email: "x@example.com", Username: "x"})
	require.Error(t, err)
}
