package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "state/session:abc:cart-storage.json", ObjectKey("session:abc:cart-storage"))
	assert.Equal(t, "state/favorites-storage.json", ObjectKey("/favorites-storage"))
}
