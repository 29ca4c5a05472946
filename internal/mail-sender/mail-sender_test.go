package mailSender

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"session_auth/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func activationMessage() models.Message {
	return models.Message{
		Email:    "a@x.com",
		Subject:  "Account Activation",
		Template: "activation-mail",
		Data:     map[string]string{"name": "Ann", "activationCode": "4821"},
	}
}

func TestRender(t *testing.T) {
	m, err := NewWithDialer(&captureDialer{}, "noreply@x.com")
	require.NoError(t, err)

	text, err := m.Render(activationMessage())
	require.NoError(t, err)

	assert.Contains(t, text, "Hello Ann")
	assert.Contains(t, text, "4821")
}

func TestRenderUnknownTemplate(t *testing.T) {
	m, err := NewWithDialer(&captureDialer{}, "noreply@x.com")
	require.NoError(t, err)

	msg := activationMessage()
	msg.Template = "welcome"

	_, err = m.Render(msg)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRenderMissingData(t *testing.T) {
	m, err := NewWithDialer(&captureDialer{}, "noreply@x.com")
	require.NoError(t, err)

	msg := activationMessage()
	delete(msg.Data, "activationCode")

	_, err = m.Render(msg)
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	d := &captureDialer{}
	m, err := NewWithDialer(d, "noreply@x.com")
	require.NoError(t, err)

	body, err := json.Marshal(activationMessage())
	require.NoError(t, err)

	require.NoError(t, m.Handle(body))
	require.Len(t, d.sent, 1)

	sent := d.sent[0]
	assert.Equal(t, []string{"a@x.com"}, sent.GetHeader("To"))
	assert.Equal(t, []string{"noreply@x.com"}, sent.GetHeader("From"))
	assert.Equal(t, []string{"Account Activation"}, sent.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = sent.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "4821")
}

func TestHandleErrors(t *testing.T) {
	m, err := NewWithDialer(&captureDialer{err: errors.New("smtp down")}, "noreply@x.com")
	require.NoError(t, err)

	assert.Error(t, m.Handle([]byte("{")))

	body, err := json.Marshal(activationMessage())
	require.NoError(t, err)
	assert.Error(t, m.Handle(body))
}
