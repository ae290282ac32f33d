package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter moves log output off the caller's goroutine. Lines are queued
// and written to every sink by a single loop goroutine.
type asyncWriter struct {
	queue chan []byte
	flush chan chan error
	done  chan struct{}
	once  sync.Once
	sinks []*bufio.Writer

	mu  sync.Mutex
	err error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	w := &asyncWriter{
		queue: make(chan []byte, 256),
		flush: make(chan chan error),
		done:  make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.loop()
	return w
}

func (w *asyncWriter) loop() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				w.drain()
				return
			}
			w.write(line)
			if len(w.queue) == 0 {
				w.drain()
			}
		case ack := <-w.flush:
			for len(w.queue) > 0 {
				w.write(<-w.queue)
			}
			ack <- w.drain()
		}
	}
}

func (w *asyncWriter) write(line []byte) {
	for _, s := range w.sinks {
		if _, err := s.Write(line); err != nil {
			w.fail(err)
		}
	}
}

func (w *asyncWriter) drain() error {
	var errs []error
	for _, s := range w.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
			w.fail(err)
		}
	}
	return errors.Join(errs...)
}

// Write queues a copy of p. It blocks when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.failure(); err != nil {
		return err
	}
	w.queue <- append([]byte(nil), p...)
	return nil
}

// Flush waits until every queued line reached the sinks.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	w.flush <- ack
	return <-ack
}

// Close drains the queue and stops the loop.
func (w *asyncWriter) Close() error {
	w.once.Do(func() { close(w.queue) })
	<-w.done
	return w.failure()
}

func (w *asyncWriter) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

func (w *asyncWriter) failure() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
