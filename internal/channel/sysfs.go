package channel

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a Channel backed by a sysfs attribute. The node is opened once
// and every value is written newline-terminated at offset 0, which is how
// sysfs attributes expect to be stored.
type File struct {
	path string
	f    *os.File
}

func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &File{path: path, f: f}, nil
}

func (c *File) Path() string {
	return c.path
}

func (c *File) Write(value string) error {
	buf := []byte(value + "\n")
	n, err := unix.Pwrite(int(c.f.Fd()), buf, 0)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	if n != len(buf) {
		return fmt.Errorf("short write to %s: %d of %d bytes", c.path, n, len(buf))
	}
	return nil
}

func (c *File) Close() error {
	return c.f.Close()
}

// OpenBank opens a File for every path. If any node cannot be opened the
// ones already opened are closed again.
func OpenBank(paths map[ID]string) (*Bank, error) {
	channels := make(map[ID]Channel, len(paths))
	closeAll := func() {
		for _, ch := range channels {
			ch.(*File).Close()
		}
	}

	for _, id := range IDs() {
		path, ok := paths[id]
		if !ok || path == "" {
			closeAll()
			return nil, fmt.Errorf("%w: no path for %s", ErrIncompleteBank, id)
		}
		f, err := OpenFile(path)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}
		channels[id] = f
	}

	bank, err := NewBank(channels)
	if err != nil {
		closeAll()
		return nil, err
	}
	return bank, nil
}
