package wire

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sys/unix"
)

// maxFDs is the most file descriptors libwayland will attach to a
// single sendmsg call.
const maxFDs = 28

// RuntimeDir returns $XDG_RUNTIME_DIR, or the conventional per-user
// directory if it is unset.
func RuntimeDir() string {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if ok && dir != "" {
		return dir
	}
	return fmt.Sprintf("/run/user/%v", os.Getuid())
}

// SocketPath resolves a display name to the path of its Unix domain
// socket. Absolute names are returned unchanged. It does not attempt
// to determine if the value corresponds to an actual socket.
func SocketPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(RuntimeDir(), name)
}

// Listen creates a listening socket at path. The socket file is
// removed when the listener is closed.
func Listen(path string) (*net.UnixListener, error) {
	lis, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, err
	}
	lis.SetUnlinkOnClose(true)
	return lis, nil
}

// Dial opens a connection to the Wayland socket based on the current
// environment. It follows the procedure outlined at
// https://wayland-book.com/protocol-design/wire-protocol.html#transports
func Dial() (*Conn, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.ParseInt(v, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
		}
		file := os.NewFile(uintptr(fd), "WAYLAND_SOCKET")
		defer file.Close()

		c, err := net.FileConn(file)
		if err != nil {
			return nil, fmt.Errorf("open WAYLAND_SOCKET connection: %w", err)
		}
		uc, ok := c.(*net.UnixConn)
		if !ok {
			c.Close()
			return nil, errors.New("WAYLAND_SOCKET is not a Unix socket")
		}
		return NewConn(uc), nil
	}

	name, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok || name == "" {
		name = "wayland-0"
	}
	return DialPath(SocketPath(name))
}

// DialPath opens a connection to the socket at path.
func DialPath(path string) (*Conn, error) {
	c, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, err
	}
	return NewConn(c), nil
}

// Conn represents a low-level Wayland connection. Reads happen on a
// single reader goroutine, writes on the goroutine that owns the
// protocol state. File descriptors received with incoming data are
// queued until a message claims them.
type Conn struct {
	conn *net.UnixConn

	m   sync.Mutex
	fds []int
}

// NewConn creates a new Conn that wraps c. After this is called, use
// the provided Close method to close c instead of calling its own
// Close method.
func NewConn(c *net.UnixConn) *Conn {
	return &Conn{
		conn: c,
	}
}

// Close closes the underlying connection along with any received file
// descriptors that were never claimed.
func (c *Conn) Close() error {
	c.m.Lock()
	fds := c.fds
	c.fds = nil
	c.m.Unlock()

	for _, fd := range fds {
		unix.Close(fd)
	}
	return c.conn.Close()
}

// Read implements io.Reader. Ancillary data carrying file descriptors
// is parsed and queued.
func (c *Conn) Read(buf []byte) (int, error) {
	oob := make([]byte, unix.CmsgSpace(maxFDs*4))
	n, oobn, _, _, err := c.conn.ReadMsgUnix(buf, oob)
	if oobn > 0 {
		ferr := c.readFDs(oob[:oobn])
		if ferr != nil {
			return n, errors.Join(err, ferr)
		}
	}
	return n, err
}

func (c *Conn) readFDs(data []byte) error {
	cmsgs, err := unix.ParseSocketControlMessage(data)
	if err != nil {
		return fmt.Errorf("parse socket control messages: %w", err)
	}

	c.m.Lock()
	defer c.m.Unlock()

	for _, cmsg := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			if errors.Is(err, unix.EINVAL) {
				continue
			}
			return fmt.Errorf("parse unix control message: %w", err)
		}
		c.fds = append(c.fds, fds...)
	}
	return nil
}

func (c *Conn) popFD() (int, bool) {
	c.m.Lock()
	defer c.m.Unlock()

	if len(c.fds) == 0 {
		return -1, false
	}
	fd := c.fds[0]
	c.fds = c.fds[1:]
	return fd, true
}

func (c *Conn) write(data, oob []byte) error {
	_, _, err := c.conn.WriteMsgUnix(data, oob, nil)
	return err
}
