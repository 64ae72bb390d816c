package builtin

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Call(t *testing.T) {
	r := NewRegistry()
	r.clock = func() time.Time { return time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC) }

	t.Run("uuid", func(t *testing.T) {
		v, ok, err := r.Call("uuid()")
		require.NoError(t, err)
		require.True(t, ok)
		_, parseErr := uuid.Parse(v.(string))
		assert.NoError(t, parseErr)
	})

	t.Run("date default layout", func(t *testing.T) {
		v, ok, err := r.Call("date()")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "2024-03-09", v)
	})

	t.Run("date quoted layout", func(t *testing.T) {
		v, _, err := r.Call(`date("2006/01/02 15:04")`)
		require.NoError(t, err)
		assert.Equal(t, "2024/03/09 10:30", v)
	})

	t.Run("timestamp", func(t *testing.T) {
		v, _, err := r.Call("timestamp()")
		require.NoError(t, err)
		assert.Equal(t, int64(1709980200), v)
	})

	t.Run("random in range", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			v, _, err := r.Call("random(5, 7)")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v.(int), 5)
			assert.LessOrEqual(t, v.(int), 7)
		}
	})

	t.Run("randomString length", func(t *testing.T) {
		v, _, err := r.Call("randomString(8)")
		require.NoError(t, err)
		assert.Len(t, v.(string), 8)
	})

	t.Run("bad argument", func(t *testing.T) {
		_, ok, err := r.Call("random(a, 3)")
		assert.True(t, ok)
		var argErr *ArgError
		assert.ErrorAs(t, err, &argErr)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, ok, err := r.Call("nope()")
		assert.False(t, ok)
		assert.NoError(t, err)
	})

	t.Run("not a call", func(t *testing.T) {
		_, ok, _ := r.Call("task_id")
		assert.False(t, ok)
	})
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("answer", func(_ []string) (any, error) { return 42, nil })

	v, ok, err := r.Call("answer()")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Contains(t, r.Names(), "answer")
}
