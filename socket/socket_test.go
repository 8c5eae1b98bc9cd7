package socket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/gsock/api"
	"github.com/momentics/gsock/socket"
)

func TestNewRejectsUnknownTransport(t *testing.T) {
	h, err := socket.New(api.Transport(99))
	assert.Nil(t, h)
	assert.ErrorIs(t, err, api.ErrUnsupportedTransport)

	h, err = socket.New(api.TransportUnknown)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, api.ErrUnsupportedTransport)
}

func TestParseEndpointUnknownScheme(t *testing.T) {
	_, err := socket.Listen("http://127.0.0.1:80", 1)
	assert.ErrorIs(t, err, api.ErrUnsupportedTransport)
	_, err = socket.Dial("127.0.0.1:80")
	assert.ErrorIs(t, err, api.ErrUnsupportedTransport)
}
