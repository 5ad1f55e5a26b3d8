package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPool(t *testing.T) {
	assert := assert.New(t)

	t.Run("Get and Put", func(t *testing.T) {
		timer1 := GetTimer(10 * time.Millisecond)
		assert.NotNil(timer1)

		PutTimer(timer1)

		timer2 := GetTimer(20 * time.Millisecond)
		assert.NotNil(timer2)

		<-timer2.C
		PutTimer(timer2)
	})

	t.Run("Put Active Timer", func(t *testing.T) {
		timer1 := GetTimer(time.Hour)
		PutTimer(timer1)

		timer2 := GetTimer(10 * time.Millisecond)
		select {
		case <-timer2.C:
		case <-time.After(time.Second):
			t.Error("reused timer did not fire")
		}
		PutTimer(timer2)
	})
}

func TestSleep(t *testing.T) {
	assert := assert.New(t)

	start := time.Now()
	assert.NoError(Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(time.Since(start), 20*time.Millisecond)

	assert.NoError(Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	assert.ErrorIs(Sleep(ctx, time.Hour), context.Canceled)
	assert.Less(time.Since(start), time.Second)

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(Sleep(ctx, time.Hour), context.DeadlineExceeded)
}
