package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sheepman0/skeincoin/log"
)

// shutdownRequestChannel lets a subsystem initiate shutdown through the same
// path as an OS interrupt.
var shutdownRequestChannel = make(chan struct{})

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// interruptListener returns a channel closed on the first interrupt signal
// or shutdown request. Further signals are logged and ignored.
func interruptListener() <-chan struct{} {
	c := make(chan struct{})
	closeOnce := sync.Once{}
	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)

		for {
			select {
			case sig := <-interruptChannel:
				log.Info("received signal (%s), shutting down", sig)

			case <-shutdownRequestChannel:
				log.Info("shutdown requested, shutting down")
			}

			closeOnce.Do(func() {
				close(c)
			})
		}
	}()

	return c
}

// interruptRequested reports whether the interrupt channel has been closed,
// for polling between startup steps.
func interruptRequested(interrupted <-chan struct{}) bool {
	select {
	case <-interrupted:
		return true
	default:
	}

	return false
}
