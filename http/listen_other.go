//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package http

import "syscall"

func reusePortControl(network, address string, conn syscall.RawConn) error {
	return nil
}

const reusePortSupported = false
