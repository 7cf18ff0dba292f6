// Package platform holds OS-facing helpers for the desktop build.
package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another countdown window already holds the lock.
var ErrAlreadyRunning = errors.New("countdown already running")

const (
	minLockPort = 20000
	maxLockPort = 39999
)

// InstanceLock keeps a loopback listener open for the lifetime of the
// process so a second launch can detect the first one.
type InstanceLock struct {
	listener net.Listener
}

// AcquireSingleInstance binds a port derived from appName on 127.0.0.1.
func AcquireSingleInstance(appName string) (*InstanceLock, error) {
	return acquireOnPort(LockPort(appName))
}

func acquireOnPort(port int) (*InstanceLock, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		// Bind errors differ per OS; any failure means the port is taken.
		return nil, fmt.Errorf("lock port %d: %w: %w", port, ErrAlreadyRunning, err)
	}
	return &InstanceLock{listener: listener}, nil
}

// Release frees the lock. It is safe to call on a nil lock and more than once.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// Address returns the bound address, or "" once released.
func (lock *InstanceLock) Address() string {
	if lock == nil || lock.listener == nil {
		return ""
	}
	return lock.listener.Addr().String()
}

// LockPort maps appName onto a stable port in the lock range.
func LockPort(appName string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	return minLockPort + int(hash.Sum32()%uint32(maxLockPort-minLockPort+1))
}
