package power

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rkjdid/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/solar3s/ippower/internal/syncutil"
)

// StateReader is anything able to read the current State.
type StateReader interface {
	State() (State, error)
}

type WatcherConfig struct {
	PollRate util.Duration `validate:"gt=0"`
}

var DefaultWatcherConfig = WatcherConfig{
	PollRate: util.Duration(5 * time.Second),
}

// Snapshot is the state read at a given time, or the error that prevented it.
type Snapshot struct {
	Time  time.Time
	State State
	Err   string `json:",omitempty"`
}

const subscriptionBuffer = 8

// Watcher polls the settings, which the firmware may change on its own
// (Fn+Q switches the performance mode), and publishes every change.
type Watcher struct {
	// OnError is called with every error met while polling.
	OnError func(error)

	src     StateReader
	cfg     *WatcherConfig
	clock   clockwork.Clock
	history *History
	log     zerolog.Logger

	mu     syncutil.Mutex
	last   Snapshot
	polled bool
	subs   map[chan Snapshot]struct{}

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher returns a Watcher reading src. A nil cfg, clock or history
// stands for the defaults.
func NewWatcher(src StateReader, cfg *WatcherConfig, clock clockwork.Clock, history *History) *Watcher {
	if cfg == nil {
		cfg = &DefaultWatcherConfig
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if history == nil {
		history = NewHistory(0)
	}
	return &Watcher{
		src:     src,
		cfg:     cfg,
		clock:   clock,
		history: history,
		log:     log.With().Str("component", "watcher").Logger(),
		subs:    make(map[chan Snapshot]struct{}),
	}
}

// Watch polls right away, then every PollRate until Stop is called.
func (w *Watcher) Watch() {
	if w.stopCh != nil {
		return
	}
	w.stopCh = make(chan struct{})
	w.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer w.wg.Done()
		w.Refresh()

		ticker := w.clock.NewTicker(time.Duration(w.cfg.PollRate))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				w.Refresh()
			case <-stop:
				return
			}
		}
	}(w.stopCh)
}

// Stop terminates polling, waits for it and closes every subscription.
func (w *Watcher) Stop() {
	if w.stopCh != nil {
		w.log.Debug().Msg("stopping watcher")
		close(w.stopCh)
		w.wg.Wait()
		w.stopCh = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.subs {
		close(ch)
		delete(w.subs, ch)
	}
}

// Refresh polls now and returns the resulting snapshot.
func (w *Watcher) Refresh() Snapshot {
	w.mu.Lock()
	st, err := w.src.State()
	sn := Snapshot{Time: w.clock.Now(), State: st}
	if err != nil {
		sn.Err = err.Error()
		w.log.Error().Err(err).Msg("error reading power settings")
	}

	prev, polled := w.last, w.polled
	w.last, w.polled = sn, true
	if !polled || prev.State != sn.State || prev.Err != sn.Err {
		if polled && prev.Err == "" && sn.Err == "" {
			changes := Diff(sn.Time, prev.State, sn.State)
			for _, c := range changes {
				w.log.Info().Stringer("setting", c.Setting).Stringer("from", c.From).
					Stringer("to", c.To).Msg("power setting changed")
			}
			w.history.Record(changes...)
		}
		w.publish(sn)
	}
	w.mu.Unlock()

	if err != nil && w.OnError != nil {
		w.OnError(err)
	}
	return sn
}

// publish must be called with w.mu held.
func (w *Watcher) publish(sn Snapshot) {
	for ch := range w.subs {
		select {
		case ch <- sn:
		default:
			w.log.Debug().Msg("subscriber lagging, snapshot dropped")
		}
	}
}

// Last returns the latest snapshot, and whether there was a poll at all.
func (w *Watcher) Last() (Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.polled
}

// History returns the changes recorded so far.
func (w *Watcher) History() *History {
	return w.history
}

// Subscribe returns a channel receiving the latest snapshot, then every
// new one. cancel releases it; Stop closes it.
func (w *Watcher) Subscribe() (snapshots <-chan Snapshot, cancel func()) {
	ch := make(chan Snapshot, subscriptionBuffer)

	w.mu.Lock()
	w.subs[ch] = struct{}{}
	if w.polled {
		ch <- w.last
	}
	w.mu.Unlock()

	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.subs[ch]; ok {
			delete(w.subs, ch)
			close(ch)
		}
	}
}
