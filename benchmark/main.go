package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/catatsuy/listdict/internal/server"
)

const defaultAddr = "127.0.0.1:11211"

func main() {
	if err := runDemo(defaultAddr); err != nil {
		panic(err)
	}
}

func runDemo(addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.NewServer(server.Config{
		ListenAddr: addr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	select {
	case <-srv.Ready():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed before ready: %w", err)
		}
		return fmt.Errorf("server exited before ready")
	case <-time.After(3 * time.Second):
		return fmt.Errorf("server did not become ready")
	}

	addr = srv.Addr()
	if addr == "" {
		return fmt.Errorf("server address is empty")
	}

	mc := memcache.New(addr)

	if err := mc.Add(&memcache.Item{Key: "job-1", Value: []byte("crawl example.com")}); err != nil {
		return fmt.Errorf("add failed: %w", err)
	}
	err := mc.Add(&memcache.Item{Key: "job-1", Value: []byte("again")})
	if !errors.Is(err, memcache.ErrNotStored) {
		return fmt.Errorf("duplicate add: want %v, got %v", memcache.ErrNotStored, err)
	}
	fmt.Println("add job-1 twice => second add not stored")

	item, err := mc.Get("job-1")
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}
	fmt.Printf("get job-1 => %s\n", string(item.Value))

	if err := mc.Delete("job-1"); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	fmt.Printf("queue size after delete => %d\n", srv.Queue().Len())

	fmt.Println("gomemcache client works with listdict text protocol")

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stop error: %w", err)
		}
	case <-time.After(3 * time.Second):
		return fmt.Errorf("server shutdown timeout")
	}

	return nil
}
