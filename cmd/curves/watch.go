package main

import (
	"context"
	"errors"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch calls run once immediately and again each time one of files is written
// or recreated. Starting a new run cancels the previous one and waits for it
// to return, so runs never overlap. watch returns when ctx is done.
func watch(ctx context.Context, files []string, run func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch directories rather than files so that editors which save by
	// renaming over the original are still seen.
	names := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		names[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	var (
		stop context.CancelFunc
		done chan struct{}
	)
	wait := func() {
		if stop != nil {
			stop()
			<-done
		}
	}
	start := func() {
		wait()
		var rctx context.Context
		rctx, stop = context.WithCancel(ctx)
		done = make(chan struct{})
		go func(ctx context.Context, done chan struct{}) {
			defer close(done)
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Print(err)
			}
		}(rctx, done)
	}
	defer wait()

	start()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !names[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Printf("%s changed", event.Name)
				start()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}
