package ipcfd

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

func sysSocketpair() ([2]int, error) {
	return unix.Socketpair(unix.AF_UNIX, unix.SOCK_DGRAM, 0)
}

func fileToUnixConn(fd int) (*net.UnixConn, error) {
	f := os.NewFile(uintptr(fd), "socketpair")
	conn, err := net.FileConn(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.Close()
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("ipcfd: FileConn did not return a *net.UnixConn")
	}
	return uc, nil
}

func unixClose(fd int) {
	unix.Close(fd)
}
