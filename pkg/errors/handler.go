package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives everything passed to Report and ReportPanic.
	// Replace it with SetHandler.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler installs h as the global handler. Nil restores a LogHandler
// writing to stderr.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	DefaultHandler = h
	handlerMu.Unlock()
}

func currentHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report hands err to the global handler, stamping it if needed.
func Report(err *LifecycleError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	currentHandler().HandleError(err)
}

// Warn reports a non-fatal problem found by op.
func Warn(op string, kind ErrorKind, err error) {
	Report(&LifecycleError{Op: op, Kind: kind, Err: err})
}

// ReportPanic hands a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	currentHandler().HandlePanic(err)
}

// Recover reports a panic in the deferring function and stops it.
//
//	defer errors.Recover("ctltree.trace")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
	}
}

// RecoverWithCallback is Recover followed by callback(r).
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
		if callback != nil {
			callback(r)
		}
	}
}

func reportRecovered(op string, r any) {
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack(), Timestamp: time.Now()})
}

const pkgPrefix = "github.com/go-drift/controls/pkg/errors."

var captureFrames = map[string]bool{
	"reportRecovered":     true,
	"Recover":             true,
	"RecoverWithCallback": true,
}

// CaptureStack formats the caller's stack, one "function\n\tfile:line"
// entry per frame, omitting the capture machinery itself.
func CaptureStack() string {
	pcs := make([]uintptr, 32)
	pcs = pcs[:runtime.Callers(2, pcs)]
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !captureFrames[strings.TrimPrefix(frame.Function, pkgPrefix)] {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// Collector is an ErrorHandler that keeps everything it receives. It is
// safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	errs   []*LifecycleError
	panics []*PanicError
}

func (c *Collector) HandleError(err *LifecycleError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *Collector) HandlePanic(err *PanicError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panics = append(c.panics, err)
}

// Errors returns the collected errors in arrival order.
func (c *Collector) Errors() []*LifecycleError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*LifecycleError(nil), c.errs...)
}

// Panics returns the collected panics in arrival order.
func (c *Collector) Panics() []*PanicError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*PanicError(nil), c.panics...)
}
