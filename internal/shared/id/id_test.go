package id

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator(nil)
	assert.NotEqual(t, gen.Generate(), gen.Generate())
	assert.Len(t, gen.Generate().String(), 26)
}

func TestPrefixedIDs(t *testing.T) {
	req := NewRequestID()
	client := NewClientID()

	assert.True(t, strings.HasPrefix(req.String(), "req_"))
	assert.True(t, strings.HasPrefix(client.String(), "client_"))
	assert.NotEqual(t, req.String(), NewRequestID().String())
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewRequestID().String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("req_not-a-ulid")
	assert.Error(t, err)
}

func TestDeterministicEntropy(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{1}, 64)))
	id := gen.Generate()
	assert.Equal(t, byte(1), id.Entropy()[0])
}

func TestConcurrentGenerate(t *testing.T) {
	gen := NewGenerator(nil)
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, dup := seen.LoadOrStore(gen.WithPrefix("x"), struct{}{})
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()
}
