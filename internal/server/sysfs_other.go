//go:build !linux

package server

import "github.com/rileyhilliard/vantasys/internal/api"

func readMotherboard() *api.Motherboard { return nil }

func linkSpeed(string) int { return 0 }
