package bot

import "fmt"

// Fragment is one incremental piece of a bot reply. Consumers concatenate
// fragment text in emission order to reconstruct the full reply.
type Fragment struct {
	Text string `json:"text"`
}

// Stream is a lazy, finite sequence of reply fragments fed by a producer
// goroutine. It is single-pass: once drained it cannot be replayed.
type Stream struct {
	ch  chan Fragment
	err error
}

// Generate starts fn in its own goroutine and returns the stream it
// feeds. fn emits fragments through emit; its return value becomes the
// stream's terminal error, visible through Err once the stream is
// exhausted. A panic in fn is converted into a terminal error so a broken
// producer cannot take the process down.
func Generate(fn func(emit func(text string)) error) *Stream {
	s := &Stream{ch: make(chan Fragment, 1)}
	go func() {
		defer close(s.ch)
		defer func() {
			if rec := recover(); rec != nil {
				s.err = fmt.Errorf("bot panic: %v", rec)
			}
		}()
		s.err = fn(func(text string) {
			s.ch <- Fragment{Text: text}
		})
	}()
	return s
}

// Next returns the next fragment. ok is false once the stream is
// exhausted; check Err at that point.
func (s *Stream) Next() (f Fragment, ok bool) {
	f, ok = <-s.ch
	return f, ok
}

// Err reports the error that terminated the stream, if any. Only valid
// after Next has returned ok == false.
func (s *Stream) Err() error { return s.err }

// Collect drains the stream and returns every fragment it produced along
// with its terminal error.
func (s *Stream) Collect() ([]Fragment, error) {
	var frags []Fragment
	for {
		f, ok := s.Next()
		if !ok {
			return frags, s.Err()
		}
		frags = append(frags, f)
	}
}
