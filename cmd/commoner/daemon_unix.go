//go:build linux || darwin || freebsd || openbsd || netbsd

package main

import "syscall"

// daemonSysProcAttr detaches the re-exec'd child into its own session,
// the Go equivalent of daemonize()'s setsid() call.
func daemonSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
