package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/ForgeClient/pkg/logging"
	"github.com/spf13/pflag"
)

func main() {
	addr := pflag.String("addr", ":8081", "listen address")
	pflag.Parse()

	slog.SetDefault(logging.New())

	slog.Info("Mock forge server running", "address", *addr)
	if err := http.ListenAndServe(*addr, newRouter(seed())); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
