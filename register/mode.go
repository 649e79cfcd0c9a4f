package register

// RwMode selects the read/write accessibility of a register or bitfield.
// The zero value means "readable and writable" for a register, and
// "inherit from the owning register" for a bitfield.
type RwMode int

const (
	RW_MODE_READ  = RwMode(1 << 0) // Readable.
	RW_MODE_WRITE = RwMode(1 << 1) // Writable.
	RW_MODE_RW    = RW_MODE_READ | RW_MODE_WRITE
)

// String returns the conventional "r"/"w"/"rw" rendering of the mode.
func (mode RwMode) String() (text string) {
	if (mode & RW_MODE_READ) != 0 {
		text += "r"
	}
	if (mode & RW_MODE_WRITE) != 0 {
		text += "w"
	}
	return
}

// ParseRwMode parses a "r"/"w"/"rw" mode string. The empty string parses
// to the zero mode.
func ParseRwMode(text string) (mode RwMode, err error) {
	for _, c := range text {
		switch c {
		case 'r':
			mode |= RW_MODE_READ
		case 'w':
			mode |= RW_MODE_WRITE
		default:
			err = ErrModeInvalid(text)
			return
		}
	}
	return
}

// ErrModeInvalid indicates a mode string other than "", "r", "w" or "rw".
type ErrModeInvalid string

func (err ErrModeInvalid) Error() string {
	return f("'%v' is not a r/w/rw mode", string(err))
}

func (err ErrModeInvalid) Is(target error) (ok bool) {
	_, ok = target.(ErrModeInvalid)
	return
}
