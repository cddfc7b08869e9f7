package growthmap

import (
	"sync"
	"time"
)

// PlaybackState is the externally visible controller state.
type PlaybackState string

const (
	StateIdle    PlaybackState = "idle"
	StatePaused  PlaybackState = "paused"
	StatePlaying PlaybackState = "playing"
)

const minTickInterval = 10 * time.Millisecond

// PlaybackSnapshot is a point-in-time view of a controller.
type PlaybackSnapshot struct {
	State        PlaybackState   `json:"state"`
	CurrentIndex int             `json:"currentIndex"`
	FrameCount   int             `json:"frameCount"`
	Speed        time.Duration   `json:"-"`
	SpeedMS      int64           `json:"speedMs"`
	Ended        bool            `json:"ended"`
	Frame        *AnimationFrame `json:"frame,omitempty"`
}

// PlaybackController steps through animation frames on its own ticker. All
// state lives behind the mutex; the ticker goroutine is the only autonomous
// writer and it checks its stop channel under the lock, so a tick raced with
// pause or reset becomes a no-op instead of a stale advance.
type PlaybackController struct {
	mu     sync.Mutex
	frames []AnimationFrame
	index  int
	state  PlaybackState
	speed  time.Duration
	ticker *time.Ticker
	stop   chan struct{}
	closed bool
}

// NewPlaybackController builds an idle controller with no frames loaded.
func NewPlaybackController(speed time.Duration) *PlaybackController {
	if speed < minTickInterval {
		speed = minTickInterval
	}
	return &PlaybackController{
		state: StateIdle,
		speed: speed,
	}
}

// Load replaces the frame list and rewinds to the start. Any running ticker
// is torn down first.
func (p *PlaybackController) Load(frames []AnimationFrame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.stopLocked()
	p.frames = frames
	p.index = 0
	p.state = StateIdle
}

// Play starts or resumes playback. Playing with the cursor parked on the last
// frame restarts from the beginning, regardless of how the cursor got there.
// With no frames loaded this is a no-op.
func (p *PlaybackController) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || len(p.frames) == 0 || p.state == StatePlaying {
		return
	}
	if p.index >= len(p.frames)-1 {
		p.index = 0
	}
	p.state = StatePlaying
	p.startLocked()
}

// Pause freezes the cursor and stops the ticker.
func (p *PlaybackController) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.state != StatePlaying {
		return
	}
	p.state = StatePaused
	p.stopLocked()
}

// Reset rewinds to the first frame and pauses. A controller with no frames
// loaded stays idle.
func (p *PlaybackController) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.stopLocked()
	p.index = 0
	p.state = restingState(p.frames)
}

// Seek moves the cursor, clamping out-of-range indexes to the valid window.
// The play state is preserved.
func (p *PlaybackController) Seek(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || len(p.frames) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(p.frames)-1 {
		index = len(p.frames) - 1
	}
	p.index = index
}

// SetSpeed changes the tick interval. Non-positive intervals are ignored. A
// running ticker picks up the new cadence via Reset.
func (p *PlaybackController) SetSpeed(speed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || speed <= 0 {
		return
	}
	if speed < minTickInterval {
		speed = minTickInterval
	}
	p.speed = speed
	if p.ticker != nil {
		p.ticker.Reset(speed)
	}
}

// Snapshot returns the current state including a copy of the current frame.
func (p *PlaybackController) Snapshot() PlaybackSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := PlaybackSnapshot{
		State:        p.state,
		CurrentIndex: p.index,
		FrameCount:   len(p.frames),
		Speed:        p.speed,
		SpeedMS:      p.speed.Milliseconds(),
		Ended:        p.state == StatePaused && len(p.frames) > 0 && p.index == len(p.frames)-1,
	}
	if len(p.frames) > 0 && p.index < len(p.frames) {
		frame := p.frames[p.index]
		snap.Frame = &frame
	}
	return snap
}

// Close permanently stops the controller. A controller closed mid-playback
// leaves the paused state behind so snapshots never report a playback that
// can no longer advance.
func (p *PlaybackController) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.state == StatePlaying {
		p.state = StatePaused
	}
	p.stopLocked()
}

func restingState(frames []AnimationFrame) PlaybackState {
	if len(frames) == 0 {
		return StateIdle
	}
	return StatePaused
}

func (p *PlaybackController) startLocked() {
	ticker := time.NewTicker(p.speed)
	stop := make(chan struct{})
	p.ticker = ticker
	p.stop = stop
	go p.run(ticker, stop)
}

func (p *PlaybackController) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

func (p *PlaybackController) run(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !p.advance(stop) {
				return
			}
		}
	}
}

// advance moves the cursor one frame forward. It reports false once this
// goroutine's stop channel has been replaced or playback has ended.
func (p *PlaybackController) advance(stop chan struct{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != stop || p.state != StatePlaying {
		return false
	}
	if p.index >= len(p.frames)-1 {
		p.state = StatePaused
		p.stopLocked()
		return false
	}
	p.index++
	if p.index == len(p.frames)-1 {
		p.state = StatePaused
		p.stopLocked()
		return false
	}
	return true
}
