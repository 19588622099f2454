package server

import "errors"

var (
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrQueueFull            = errors.New("command queue is full")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrUnknownAction        = errors.New("unknown action")
)
