//go:build !sqlite

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStoreSQLiteUnavailable(t *testing.T) {
	_, err := NewStore("sqlite", "paco.db")
	assert.ErrorContains(t, err, "rebuild with -tags sqlite")
}
