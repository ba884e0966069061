package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func (l *testLogger) count(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if strings.HasPrefix(m, prefix) {
			n++
		}
	}
	return n
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	t.Cleanup(d.Close)

	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got Command
	d.Register("trajectory.stats", func(c Command) (any, error) {
		got = c
		return "result", nil
	})

	result, err := d.Dispatch(Command{Name: "trajectory.stats", Args: []string{"pos.txt"}})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "result" {
		t.Errorf("expected 'result', got %v", result)
	}
	if got.Args[0] != "pos.txt" {
		t.Errorf("expected args to reach handler, got %v", got.Args)
	}
	if got.Issued.IsZero() {
		t.Error("expected Issued to be stamped")
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Dispatch(Command{Name: "nope"})

	if err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestDispatcher_BufferedHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	d.Register("trajectory.load", func(c Command) (any, error) {
		processed.Add(1)
		wg.Done()
		return nil, nil
	}, Buffered(100))

	for i := 0; i < 3; i++ {
		result, err := d.Dispatch(Command{Name: "trajectory.load"})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != "queued" {
			t.Errorf("expected 'queued', got %v", result)
		}
	}

	wg.Wait()

	if processed.Load() != 3 {
		t.Errorf("expected 3 processed, got %d", processed.Load())
	}
}

func TestDispatcher_BufferedDropsWhenFull(t *testing.T) {
	d, _ := newTestDispatcher(t)

	started := make(chan struct{}, 1)
	block := make(chan struct{})
	d.Register("full", func(c Command) (any, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
		return nil, nil
	}, Buffered(2))
	defer close(block)

	d.Dispatch(Command{Name: "full"})
	<-started
	d.Dispatch(Command{Name: "full"})
	d.Dispatch(Command{Name: "full"})

	_, err := d.Dispatch(Command{Name: "full"})
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_BufferedBlocking(t *testing.T) {
	d, _ := newTestDispatcher(t)

	started := make(chan struct{}, 1)
	block := make(chan struct{})
	d.Register("blocking", func(c Command) (any, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
		return nil, nil
	}, Buffered(1), Blocking())

	d.Dispatch(Command{Name: "blocking"})
	<-started
	d.Dispatch(Command{Name: "blocking"})

	done := make(chan struct{})
	go func() {
		d.Dispatch(Command{Name: "blocking"})
		close(done)
	}()

	select {
	case <-done:
		t.Error("dispatch should have blocked")
	case <-time.After(50 * time.Millisecond):
	}

	close(block)
	<-done
}

func TestDispatcher_AsyncErrorIsLogged(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("trajectory.reload", func(c Command) (any, error) {
		return nil, errors.New("source vanished")
	}, Buffered(1))

	if _, err := d.Dispatch(Command{Name: "trajectory.reload"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Close()

	if logger.count("ERROR") != 1 {
		t.Errorf("expected 1 error log, got %d", logger.count("ERROR"))
	}
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("clock.tick", func(c Command) (any, error) {
		return "ok", nil
	}, Logged())

	d.Dispatch(Command{Name: "clock.tick", Args: []string{"a", "b"}})

	if logger.count("DEBUG") < 2 {
		t.Errorf("expected at least 2 debug messages, got %d", logger.count("DEBUG"))
	}
}

func TestDispatcher_LoggedHandlerError(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("broken", func(c Command) (any, error) {
		return nil, fmt.Errorf("test error")
	}, Logged())

	d.Dispatch(Command{Name: "broken"})

	if logger.count("ERROR") == 0 {
		t.Error("expected error log message")
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("exists", func(c Command) (any, error) { return nil, nil })

	if !d.HasHandler("exists") {
		t.Error("expected handler to exist")
	}

	if d.HasHandler("missing") {
		t.Error("expected handler to not exist")
	}
}

func TestDispatcher_CombinedOptions(t *testing.T) {
	d, logger := newTestDispatcher(t)

	var processed atomic.Int32
	d.Register("combined", func(c Command) (any, error) {
		processed.Add(1)
		return "done", nil
	}, Buffered(100), Logged())

	result, err := d.Dispatch(Command{Name: "combined"})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "queued" {
		t.Errorf("expected 'queued', got %v", result)
	}

	d.Close()

	if processed.Load() != 1 {
		t.Errorf("expected 1 processed, got %d", processed.Load())
	}
	if logger.count("DEBUG") < 2 {
		t.Errorf("expected log messages, got %d", logger.count("DEBUG"))
	}
}

func TestDispatcher_Close(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int32
	d.Register("work", func(c Command) (any, error) {
		time.Sleep(5 * time.Millisecond)
		processed.Add(1)
		return nil, nil
	}, Buffered(10))

	for i := 0; i < 5; i++ {
		d.Dispatch(Command{Name: "work"})
	}
	d.Close()

	if processed.Load() != 5 {
		t.Errorf("expected queued commands to finish before Close returns, got %d", processed.Load())
	}

	_, err := d.Dispatch(Command{Name: "work"})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	d.Close()
}

func TestDispatcher_ReRegisterBufferedKeepsWorker(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var first, second atomic.Int32
	d.Register("load", func(c Command) (any, error) {
		first.Add(1)
		return nil, nil
	}, Buffered(1))
	d.Register("load", func(c Command) (any, error) {
		second.Add(1)
		return nil, nil
	}, Buffered(1))

	if _, err := d.Dispatch(Command{Name: "load"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		d.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after a buffered command was registered twice")
	}

	if first.Load() != 1 || second.Load() != 0 {
		t.Errorf("expected the first worker to handle the command, got first=%d second=%d", first.Load(), second.Load())
	}
}
