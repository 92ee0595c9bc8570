//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package core

import "golang.org/x/sys/unix"

const ioctlTermiosReq = unix.TIOCGETA
