package sptest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/sptest/pkg/sptest"
)

func TestRow_ByIndexAndByName(t *testing.T) {
	row := sptest.NewRow(
		[]string{"intStatus", "strMessage", "intNewID"},
		[]any{int64(1), "created", int64(42)},
	)

	assert.Equal(t, 3, row.Len())
	assert.Equal(t, int64(1), row.ByIndex(0))
	assert.Equal(t, int64(42), row.ByIndex(2))
	assert.Nil(t, row.ByIndex(3))
	assert.Nil(t, row.ByIndex(-1))

	v, ok := row.ByName("strMessage")
	assert.True(t, ok)
	assert.Equal(t, "created", v)

	// Column-name matching is case-insensitive
	v, ok = row.ByName("STRMESSAGE")
	assert.True(t, ok)
	assert.Equal(t, "created", v)

	_, ok = row.ByName("missing")
	assert.False(t, ok)
}
