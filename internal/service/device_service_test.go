package service

import (
	"context"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyDialError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &net.OpError{Op: "dial", Err: timeoutErr{}}, "timed out"},
		{"refused", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, "refused"},
		{"host unreachable", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.EHOSTUNREACH)}, "host unreachable"},
		{"network unreachable", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)}, "network unreachable"},
	}
	for _, tc := range cases {
		got := ClassifyDialError(tc.err)
		if !strings.Contains(got, tc.want) {
			t.Errorf("%s: ClassifyDialError = %q, want substring %q", tc.name, got, tc.want)
		}
	}
}

func TestTestConnectionReachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)

	svc := NewDeviceService(nil)
	result := svc.TestConnection(context.Background(), host, port)
	if !result.Reachable {
		t.Errorf("expected reachable, got %+v", result)
	}
}

func TestTestConnectionRefused(t *testing.T) {
	// Grab a free port, then close the listener so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	ln.Close()

	svc := NewDeviceService(nil)
	result := svc.TestConnection(context.Background(), host, port)
	if result.Reachable {
		t.Fatalf("expected unreachable, got %+v", result)
	}
	if !strings.Contains(result.Message, "refused") {
		t.Errorf("message = %q, want refusal reason", result.Message)
	}
}
