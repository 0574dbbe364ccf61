package recording

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation-output.json")
	r := New(path)

	require.NoError(t, r.Append(map[string]string{"endpoint": "/availability"}, map[string]int{"single": 5}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var exchanges []Exchange
	require.NoError(t, json.Unmarshal(data, &exchanges))
	require.Len(t, exchanges, 1)

	req := exchanges[0].Request.(map[string]any)
	assert.Equal(t, "/availability", req["endpoint"])
}

func TestAppendExtendsExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation-output.json")

	r := New(path)
	require.NoError(t, r.Append("first", "a"))

	// A second recorder on the same file continues the log.
	r2 := New(path)
	require.NoError(t, r2.Append("second", "b"))

	assert.Len(t, r2.Exchanges(), 2)
}

func TestCorruptLogStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation-output.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	r := New(path)
	assert.Empty(t, r.Exchanges())
	require.NoError(t, r.Append("req", "resp"))
	assert.Len(t, r.Exchanges(), 1)
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation-output.json")
	r := New(path)
	require.NoError(t, r.Append("req", "resp"))
	require.NoError(t, r.Reset())

	assert.Empty(t, r.Exchanges())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation-output.json")
	r := New(path)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Append("req", "resp")
		}()
	}
	wg.Wait()
	assert.Len(t, r.Exchanges(), 10)
}
