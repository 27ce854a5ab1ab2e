package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	c, err := NewClient("cli-0001", "María", "González")
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("creates active client with uppercased code", func(t *testing.T) {
		c := newTestClient(t)
		assert.Equal(t, "CLI-0001", c.Code)
		assert.Equal(t, StatusActive, c.Status)
		assert.Equal(t, 1, c.GetVersion())
		assert.Equal(t, "María González", c.FullName())
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewClient("", "María", "González")
		assert.Error(t, err)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := NewClient("CLI-0002", "", "González")
		assert.Error(t, err)

		_, err = NewClient("CLI-0002", "María", "")
		assert.Error(t, err)
	})
}

func TestClient_SetDocumentNumber(t *testing.T) {
	tests := []struct {
		name    string
		dni     string
		wantErr bool
	}{
		{"valid 8 digit DNI", "30123456", false},
		{"valid 7 digit DNI", "3012345", false},
		{"empty clears the field", "", false},
		{"too short", "123456", true},
		{"non numeric", "3012345A", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			err := c.SetDocumentNumber(tt.dni)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.dni, c.DocumentNumber)
			}
		})
	}
}

func TestClient_SetContact(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.SetContact("+54 11 5555-0000", "maria@example.com", "Av. Corrientes 1234"))
	assert.Equal(t, "+54 11 5555-0000", c.Phone)

	err := c.SetContact("", "not-an-email", "")
	assert.Error(t, err)
}

func TestClient_ActivateDeactivate(t *testing.T) {
	c := newTestClient(t)
	v := c.GetVersion()

	c.Deactivate()
	assert.Equal(t, StatusInactive, c.Status)
	assert.False(t, c.IsActive())
	assert.Equal(t, v+1, c.GetVersion())

	// idempotent: no version bump when already inactive
	c.Deactivate()
	assert.Equal(t, v+1, c.GetVersion())

	c.Activate()
	assert.True(t, c.IsActive())
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusInactive.IsValid())
	assert.False(t, Status("SUSPENDED").IsValid())
	assert.False(t, Status("").IsValid())
}
