// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/nixdiff/internal/adapters/config"
	_ "go.trai.ch/nixdiff/internal/adapters/detector"
	_ "go.trai.ch/nixdiff/internal/adapters/fs"
	_ "go.trai.ch/nixdiff/internal/adapters/logger"
	_ "go.trai.ch/nixdiff/internal/adapters/nix"
	_ "go.trai.ch/nixdiff/internal/adapters/report"
	_ "go.trai.ch/nixdiff/internal/adapters/store"
	_ "go.trai.ch/nixdiff/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/nixdiff/internal/app"
	_ "go.trai.ch/nixdiff/internal/engine/differ"
)
