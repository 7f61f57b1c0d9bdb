package backend

import (
	"time"

	"github.com/jotter/jotter/pkg/connection"
)

// Stub overrides how the server answers a method. Stubs are matched in the
// order they were added.
//
// A stub with only a Delay holds the call and then lets the real handler
// answer it, which is how tests open a window between a request and its
// response.
type Stub struct {
	Method string
	// Error is returned instead of running the handler.
	Error *connection.RPCError
	// Result is returned instead of running the handler when Error is nil.
	Result any
	// Delay is applied before answering.
	Delay time.Duration
	// Times limits how many calls the stub answers. Zero means unlimited.
	Times int
}

// ErrorStub fails every call of method with message.
func ErrorStub(method string, code int, message string) Stub {
	return Stub{
		Method: method,
		Error:  &connection.RPCError{Code: code, Message: message},
	}
}

// DelayStub holds every call of method for d.
func DelayStub(method string, d time.Duration) Stub {
	return Stub{Method: method, Delay: d}
}

// AddStub installs stub.
func (s *Server) AddStub(stub Stub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, &stub)
}

// ClearStubs removes every stub.
func (s *Server) ClearStubs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = nil
}

// Calls reports how many times method has been received.
func (s *Server) Calls(method string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[method]
}

// ResetCalls zeroes the call counters.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// matchStub counts the call and returns the stub that should answer it.
func (s *Server) matchStub(method string) (Stub, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[method]++

	for i, stub := range s.stubs {
		if stub.Method != method {
			continue
		}
		matched := *stub
		if stub.Times > 0 {
			stub.Times--
			if stub.Times == 0 {
				s.stubs = append(s.stubs[:i], s.stubs[i+1:]...)
			}
		}
		return matched, true
	}
	return Stub{}, false
}
