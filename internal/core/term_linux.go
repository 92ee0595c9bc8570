//go:build linux

package core

import "golang.org/x/sys/unix"

const ioctlTermiosReq = unix.TCGETS
