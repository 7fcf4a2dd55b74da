package db

// Op constants map to engine command names for error context.
const (
	OpSearch = "FT.SEARCH"
	OpDel    = "DEL"
	OpPing   = "PING"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
