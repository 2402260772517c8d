package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQRPayloadDeterministic(t *testing.T) {
	s := NewQRSigner("test-secret")

	p1 := s.Payload(42)
	p2 := s.Payload(42)
	assert.Equal(t, p1, p2)
	assert.True(t, strings.HasPrefix(p1, "TICKET:42:"))
}

func TestQRPayloadPerTicket(t *testing.T) {
	s := NewQRSigner("test-secret")
	assert.NotEqual(t, s.Payload(1), s.Payload(2))
}

func TestQRVerify(t *testing.T) {
	s := NewQRSigner("test-secret")
	payload := s.Payload(7)

	assert.True(t, s.Verify(7, payload))
	assert.False(t, s.Verify(8, payload))
	assert.False(t, s.Verify(7, payload+"x"))
	assert.False(t, s.Verify(7, ""))

	// A signer with a different secret rejects the payload.
	other := NewQRSigner("other-secret")
	assert.False(t, other.Verify(7, payload))
}
