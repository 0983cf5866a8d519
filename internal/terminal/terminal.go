// Package terminal wraps the OS facilities the editor core depends on: raw
// mode, window geometry, the resize notification flag, and byte-at-a-time
// input with a short read timeout.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// ErrInvalidWindowSize is returned when the kernel reports a zero-sized
// window in either dimension.
var ErrInvalidWindowSize = errors.New("invalid window size")

// Terminal owns the stdin/stdout terminal state for the lifetime of the
// editor. Restore must run on every exit path.
type Terminal struct {
	inFd, outFd int
	orig        *unix.Termios
	resized     atomic.Bool
	sigCh       chan os.Signal
}

// Open puts the terminal into raw mode and starts listening for window
// resize signals. The returned Terminal must be Restored before exit.
func Open() (*Terminal, error) {
	t := &Terminal{inFd: int(os.Stdin.Fd()), outFd: int(os.Stdout.Fd())}
	orig, err := unix.IoctlGetTermios(t.inFd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}
	t.orig = orig

	raw := *orig
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// Read returns after one byte or after a tenth of a second with
	// nothing: the main loop needs to wake up to notice resize signals,
	// and the escape decoder needs a bounded wait for continuation bytes.
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1
	if err := unix.IoctlSetTermios(t.inFd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, syscall.SIGWINCH)
	go func() {
		for range t.sigCh {
			t.resized.Store(true)
		}
	}()
	return t, nil
}

// Restore puts the terminal back into its original mode. Safe to call more
// than once.
func (t *Terminal) Restore() {
	if t.orig == nil {
		return
	}
	if err := unix.IoctlSetTermios(t.inFd, ioctlWriteTermios, t.orig); err != nil {
		log.Warn().Err(err).Msg("failed to restore terminal mode")
	}
	t.orig = nil
	signal.Stop(t.sigCh)
	close(t.sigCh)
}

// Resized reports whether a window-size change signal arrived since the last
// call, clearing the flag.
func (t *Terminal) Resized() bool {
	return t.resized.Swap(false)
}

// ReadByte reads one input byte. ok is false when the read timed out with no
// byte available.
func (t *Terminal) ReadByte() (b byte, ok bool, err error) {
	var buf [1]byte
	n, err := unix.Read(t.inFd, buf[:])
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read stdin: %w", err)
	}
	if n == 0 {
		return 0, false, nil
	}
	return buf[0], true, nil
}

// Size returns the terminal dimensions. When the ioctl reports a zero
// dimension it falls back to querying the cursor position after moving it to
// the bottom-right corner.
func (t *Terminal) Size() (rows, cols int, err error) {
	ws, err := unix.IoctlGetWinsize(t.outFd, unix.TIOCGWINSZ)
	if err == nil && ws.Row > 0 && ws.Col > 0 {
		return int(ws.Row), int(ws.Col), nil
	}
	log.Debug().Err(err).Msg("TIOCGWINSZ failed, falling back to cursor query")
	rows, cols, err = t.sizeFromCursor()
	if err != nil {
		return 0, 0, err
	}
	if rows == 0 || cols == 0 {
		return 0, 0, ErrInvalidWindowSize
	}
	return rows, cols, nil
}

// sizeFromCursor moves the cursor to the bottom-right corner and asks the
// terminal to report its position.
func (t *Terminal) sizeFromCursor() (rows, cols int, err error) {
	if _, err := os.Stdout.WriteString("\x1b[999C\x1b[999B\x1b[6n"); err != nil {
		return 0, 0, err
	}
	// Response has the form <ESC>[{rows};{cols}R.
	var buf [32]byte
	i := 0
	for i < len(buf) {
		n, err := unix.Read(t.inFd, buf[i:i+1])
		if err != nil || n == 0 {
			break
		}
		if buf[i] == 'R' {
			break
		}
		i++
	}
	if i < 2 || buf[0] != 0x1b || buf[1] != '[' {
		return 0, 0, errors.New("cannot query cursor position")
	}
	if _, err := fmt.Sscanf(string(buf[2:i]), "%d;%d", &rows, &cols); err != nil {
		return 0, 0, fmt.Errorf("parse cursor position: %w", err)
	}
	return rows, cols, nil
}

// Write sends raw bytes to the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}
