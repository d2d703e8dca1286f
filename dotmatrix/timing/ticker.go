package timing

import "time"

// TickerLimiter paces frames with a time.Ticker. If a frame overruns its
// budget the tick has already fired and the wait returns immediately, so a
// slow frame never stalls the loop further.
type TickerLimiter struct {
	ticker *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{
		ticker: time.NewTicker(FrameDuration()),
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
