package playback

const eventBufferSize = 16

// Subscription provides event channels for one subscriber. Sends never
// block; events are dropped while a channel is full.
type Subscription struct {
	StateChanged <-chan StateChange
	TrackChanged <-chan TrackChange
	QueueChanged <-chan QueueChange
	ModeChanged  <-chan ModeChange
	Notices      <-chan Notice
	Error        <-chan ErrorEvent
	Done         <-chan struct{}

	stateCh  chan StateChange
	trackCh  chan TrackChange
	queueCh  chan QueueChange
	modeCh   chan ModeChange
	noticeCh chan Notice
	errorCh  chan ErrorEvent
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:  make(chan StateChange, eventBufferSize),
		trackCh:  make(chan TrackChange, eventBufferSize),
		queueCh:  make(chan QueueChange, eventBufferSize),
		modeCh:   make(chan ModeChange, eventBufferSize),
		noticeCh: make(chan Notice, eventBufferSize),
		errorCh:  make(chan ErrorEvent, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.Notices = s.noticeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}
