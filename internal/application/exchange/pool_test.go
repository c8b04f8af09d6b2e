package exchange

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBounded_LimiteYResultados(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var active, peak int32

	out := runBounded(context.Background(), 3, items, strconv.Itoa, func(_ context.Context, n int) error {
		cur := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		if n%4 == 0 {
			return errors.New("múltiplo de 4")
		}
		return nil
	})

	require.Len(t, out, len(items))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	for i, o := range out {
		assert.Equal(t, strconv.Itoa(items[i]), o.Key)
	}
	var r Report
	r.Add(out)
	assert.Equal(t, Report{Succeeded: 6, Failed: 2}, r)
}

func TestRunBounded_PanicEsErrorDeLaTarea(t *testing.T) {
	out := runBounded(context.Background(), 0, []string{"ok", "boom"}, func(s string) string { return s },
		func(_ context.Context, s string) error {
			if s == "boom" {
				panic("explotó")
			}
			return nil
		})
	assert.NoError(t, out[0].Err)
	require.Error(t, out[1].Err)
	assert.Contains(t, out[1].Err.Error(), "explotó")
}
