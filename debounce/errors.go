package debounce

import (
	"github.com/pkg/errors"
)

var (
	ErrNilAction     = errors.New("debounce: nil action")
	ErrNegativeDelay = errors.New("debounce: negative delay")
	ErrClosed        = errors.New("debounce: closed")
)
