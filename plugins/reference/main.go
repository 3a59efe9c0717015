package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	alertrpc "vigil/internal/modules/alert/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *alertrpc.Empty) (*alertrpc.Metadata, error) {
	return &alertrpc.Metadata{Name: "reference", Version: "1.0.0"}, nil
}

func (s *server) Pulse(_ context.Context, in *alertrpc.PulseRequest) (*alertrpc.PulseResponse, error) {
	line := fmt.Sprintf("%s pulse method=%s message=%s\n", in.At, in.Method, in.Message)
	path := filepath.Join(os.TempDir(), "vigil-reference-alerts.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open alert log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return nil, fmt.Errorf("append alert log: %w", err)
	}
	return &alertrpc.PulseResponse{Delivered: true, Detail: path}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: alertrpc.HandshakeConfig,
		Plugins:         alertrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
