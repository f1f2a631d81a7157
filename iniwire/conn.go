// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package iniwire

import "context"

// watch calls expire if ctx is Done before the returned release function is
// called. expire should set a deadline in the past on the connection so that
// blocked I/O returns. release waits for the watcher to exit.
func watch(ctx context.Context, expire func()) (release func()) {
	ctxDone := ctx.Done()
	if ctxDone == nil {
		return func() {}
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-stop:
		case <-ctxDone:
			expire()
		}
	}()
	return func() {
		close(stop)
		<-done
	}
}

// expired reports ctx's error in place of err if ctx ended the I/O.
func expired(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
