package signaling

import (
	"log"
	"net"
	"sync/atomic"
	"time"
)

// Probe measures real network latency by TCP-dialing the signaling
// host. It probes every 5 seconds and notifies a callback with each
// new measurement.
type Probe struct {
	addr      string
	stop      chan struct{}
	stopped   int32 // atomic flag — 1 means stopped
	currentMs int64 // atomic; -1 = unreachable
}

// NewProbe creates a probe for a "host:port" address.
func NewProbe(addr string) *Probe {
	return &Probe{
		addr:      addr,
		stop:      make(chan struct{}),
		currentMs: -1, // shown as "--" until the first measurement lands
	}
}

// Current returns the last measured latency in milliseconds, or -1 if
// unreachable.
func (p *Probe) Current() int {
	return int(atomic.LoadInt64(&p.currentMs))
}

// Start launches the background measurement loop.
// onUpdate is called from the goroutine each time a new value is
// ready; callers that need to update the UI must wrap it in
// QueueUpdateDraw.
func (p *Probe) Start(onUpdate func(ms int)) {
	go func() {
		// Probe immediately so the first real value appears fast.
		p.probe(onUpdate)

		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.probe(onUpdate)
			}
		}
	}()
}

func (p *Probe) probe(onUpdate func(ms int)) {
	// A failed measure resets to -1 so the header falls back to "--"
	// during an outage instead of freezing the last good value.
	ms := p.measure()
	atomic.StoreInt64(&p.currentMs, int64(ms))
	if onUpdate != nil {
		onUpdate(ms)
	}
}

// measure does a single TCP dial to the signaling host and returns
// the round-trip time. Returns -1 on any error.
func (p *Probe) measure() int {
	start := time.Now()
	conn, err := net.DialTimeout("tcp", p.addr, 3*time.Second)
	if err != nil {
		log.Printf("Probe: dial %s failed: %v", p.addr, err)
		return -1
	}
	conn.Close()
	return int(time.Since(start).Milliseconds())
}

// Stop shuts down the measurement goroutine cleanly. Idempotent and
// safe to call from multiple goroutines.
func (p *Probe) Stop() {
	if atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		close(p.stop)
	}
}
