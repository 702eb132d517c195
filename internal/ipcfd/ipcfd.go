// Package ipcfd carries the file-descriptor side-channel a POD buffer's
// Fd-kind values reference: the buffer's bytes travel as ordinary socket
// payload, and any descriptors it indexes travel alongside as SCM_RIGHTS
// ancillary data on the same datagram, the way a stream's control socket
// pairs a parameter buffer with a descriptor list (original_source's
// pinos/client/stream.c handle_socket/g_unix_fd_list pairing).
//
// An Fd value's body (see the pod package's Fd accessor) is the index of
// its descriptor within the ancillary array carried on the message that
// transported the buffer — not a process-wide descriptor number.
package ipcfd

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// MaxPerMessage bounds how many descriptors one call to Send/Recv will
// carry, matching the fixed-size recv_fds array the original stream
// control socket uses.
const MaxPerMessage = 16

// Send writes payload to conn with fds attached as SCM_RIGHTS ancillary
// data. The Fd-kind values inside payload must index into fds in the
// same order.
func Send(conn *net.UnixConn, payload []byte, fds []int) error {
	if len(fds) > MaxPerMessage {
		return fmt.Errorf("ipcfd: %d descriptors exceeds MaxPerMessage (%d)", len(fds), MaxPerMessage)
	}
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	raw, err := conn.File()
	if err != nil {
		return fmt.Errorf("ipcfd: %w", err)
	}
	defer raw.Close()

	sc, err := raw.SyscallConn()
	if err != nil {
		return fmt.Errorf("ipcfd: %w", err)
	}
	var sendErr error
	if err := sc.Control(func(fd uintptr) {
		_, sendErr = unix.Sendmsg(int(fd), payload, oob, nil, 0)
	}); err != nil {
		return fmt.Errorf("ipcfd: %w", err)
	}
	if sendErr != nil {
		return fmt.Errorf("ipcfd: sendmsg: %w", sendErr)
	}
	return nil
}

// Recv reads one message from conn into buf, returning the number of
// payload bytes read and the descriptors carried in its SCM_RIGHTS
// ancillary data, in the order the sender attached them.
func Recv(conn *net.UnixConn, buf []byte) (n int, fds []int, err error) {
	oob := make([]byte, unix.CmsgSpace(MaxPerMessage*4))

	raw, err := conn.File()
	if err != nil {
		return 0, nil, fmt.Errorf("ipcfd: %w", err)
	}
	defer raw.Close()

	sc, err := raw.SyscallConn()
	if err != nil {
		return 0, nil, fmt.Errorf("ipcfd: %w", err)
	}

	var oobn int
	var recvErr error
	if ctrlErr := sc.Control(func(fd uintptr) {
		n, oobn, _, _, recvErr = unix.Recvmsg(int(fd), buf, oob, 0)
	}); ctrlErr != nil {
		return 0, nil, fmt.Errorf("ipcfd: %w", ctrlErr)
	}
	if recvErr != nil {
		return 0, nil, fmt.Errorf("ipcfd: recvmsg: %w", recvErr)
	}

	if oobn == 0 {
		return n, nil, nil
	}
	cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return n, nil, fmt.Errorf("ipcfd: parsing ancillary data: %w", err)
	}
	for _, cmsg := range cmsgs {
		got, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			continue
		}
		fds = append(fds, got...)
	}
	return n, fds, nil
}

// Table is an in-memory, order-preserving mapping from an Fd value's
// wire index to a live descriptor, built from one Recv call — the
// receiving side's equivalent of the sender's fds slice passed to Send.
type Table struct {
	fds []int
}

// NewTable wraps the descriptors from one Recv call, in wire order.
func NewTable(fds []int) *Table { return &Table{fds: fds} }

// At returns the descriptor at index, or an error if index is out of
// range — the same index an Fd-kind value's body carries.
func (t *Table) At(index int64) (int, error) {
	if index < 0 || index >= int64(len(t.fds)) {
		return 0, fmt.Errorf("ipcfd: index %d out of range [0,%d)", index, len(t.fds))
	}
	return t.fds[index], nil
}

// Len reports how many descriptors the table holds.
func (t *Table) Len() int { return len(t.fds) }
