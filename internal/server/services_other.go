//go:build !windows

package server

import (
	"context"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/logger"
)

func listServices(context.Context, logger.Logger) ([]api.Service, error) {
	return []api.Service{}, nil
}
