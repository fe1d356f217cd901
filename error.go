package bptree

import "errors"

//goland:noinspection GoUnusedGlobalVariable
var (
	ErrInvalidOrder = errors.New("order must be at least 3")
	ErrCorruption   = errors.New("tree corruption detected")
)
