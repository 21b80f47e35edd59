package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_DoublesAndCaps(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: 500 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, p.backoff(0))
	assert.Equal(t, 200*time.Millisecond, p.backoff(1))
	assert.Equal(t, 400*time.Millisecond, p.backoff(2))
	assert.Equal(t, 500*time.Millisecond, p.backoff(3))
	assert.Equal(t, 500*time.Millisecond, p.backoff(40))
}

func TestBackoff_JitterStaysInUpperHalf(t *testing.T) {
	p := DeliveryPolicy()

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		full := p.BaseDelay << uint(attempt)
		for i := 0; i < 32; i++ {
			d := p.backoff(attempt)
			assert.GreaterOrEqual(t, d, full/2)
			assert.LessOrEqual(t, d, full)
		}
	}
}
