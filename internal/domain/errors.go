package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrConfig                = errors.New("invalid configuration")
	ErrTransport             = errors.New("transport failure")
	ErrProtocol              = errors.New("protocol violation")
	ErrServerNeverReady      = errors.New("server never became ready")
	ErrUnexpectedServerState = errors.New("unexpected server state")
	ErrKernelExecution       = errors.New("kernel execution failed")
	ErrRequestInFlight       = errors.New("kernel request already in flight")
	ErrSessionClosed         = errors.New("kernel session closed")
	ErrNotebookNotFound      = errors.New("notebook not found")
	ErrRunNotFound           = errors.New("run not found")
	ErrSecretNotFound        = errors.New("secret not found")
)

type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

type ServerNeverReadyError struct {
	User   string
	Server string
}

func (e *ServerNeverReadyError) Error() string {
	return fmt.Sprintf("%s never started", serverLogName(e.User, e.Server))
}

func (e *ServerNeverReadyError) Is(target error) bool { return target == ErrServerNeverReady }

type UnexpectedServerStateError struct {
	User   string
	Server string
	Detail string
}

func (e *UnexpectedServerStateError) Error() string {
	return fmt.Sprintf("waiting for %s: %s", serverLogName(e.User, e.Server), e.Detail)
}

func (e *UnexpectedServerStateError) Is(target error) bool {
	return target == ErrUnexpectedServerState
}

type KernelFailureKind string

const (
	KernelFailureReported KernelFailureKind = "reported"
	KernelFailureTimeout  KernelFailureKind = "timeout"
)

// KernelExecutionError carries the raw kernel message when the kernel itself reported the failure.
type KernelExecutionError struct {
	Kind    KernelFailureKind
	MsgID   string
	Message json.RawMessage
}

func (e *KernelExecutionError) Error() string {
	if e.Kind == KernelFailureTimeout {
		return fmt.Sprintf("kernel execution timed out waiting for reply to %s", e.MsgID)
	}
	return fmt.Sprintf("something went wrong during the code processing, remote kernel returns: %s", string(e.Message))
}

func (e *KernelExecutionError) Is(target error) bool { return target == ErrKernelExecution }

func serverLogName(user, server string) string {
	if server == "" {
		return user
	}
	return user + "/" + server
}
