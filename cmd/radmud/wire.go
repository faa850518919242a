//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/config"
	"github.com/HexColors60/RadMud/internal/server"
)

// initializeServer wires every service of the server. The returned cleanup
// closes the stores and script states once the lifecycle has stopped.
func initializeServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*server.Lifecycle, func(), error) {
	wire.Build(providerSet)
	return nil, nil, nil
}
