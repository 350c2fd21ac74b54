package usecase

import "fmt"

// ErrBackend indicates a transport or server failure inside a use case.
// The UI maps it to a retry affordance; it never crashes a screen.
var ErrBackend = fmt.Errorf("chat use case backend error")
