package main

import (
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestServeReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	done := make(chan error, 1)
	go func() {
		done <- serve(app, ln.Addr().String(), make(chan os.Signal))
	}()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), ln.Addr().String()) {
			t.Errorf("serve = %v, want listen error for %s", err, ln.Addr())
		}
	case <-time.After(3 * time.Second):
		t.Fatal("serve kept waiting after the listener failed")
	}
}

func TestServeStopsOnSignal(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	quit := make(chan os.Signal, 1)
	quit <- os.Interrupt

	if err := serve(app, "127.0.0.1:0", quit); err != nil {
		t.Errorf("serve = %v", err)
	}
	_ = app.Shutdown()
}
