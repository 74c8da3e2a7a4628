package errors

import "fmt"

var (
	ErrWorkerPanic   = fmt.Errorf("worker panic")
	ErrEmptyMessage  = fmt.Errorf("message is empty after trimming")
	ErrQueueFull     = fmt.Errorf("send queue is full")
	ErrEmptyPool     = fmt.Errorf("generic reply pool is empty")
	ErrUnknownTarget = fmt.Errorf("no message with this id")
)
