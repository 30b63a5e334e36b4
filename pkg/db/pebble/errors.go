package pebble

const (
	ErrInOpen             = "failed to open pebble store: %w"
	ErrInIteratorCreation = "failed to create iterator: %w"
	ErrIteratorValue      = "failed to read iterator value: %w"
	ErrIteratorPosition   = "failed to position iterator: %w"
)
