// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sqip/internal/adapters/cas"
	_ "go.trai.ch/sqip/internal/adapters/config"
	_ "go.trai.ch/sqip/internal/adapters/fs"
	_ "go.trai.ch/sqip/internal/adapters/logger"
	_ "go.trai.ch/sqip/internal/adapters/primitive"
	_ "go.trai.ch/sqip/internal/adapters/resultcache"
	_ "go.trai.ch/sqip/internal/adapters/svg"
	_ "go.trai.ch/sqip/internal/adapters/telemetry"
	_ "go.trai.ch/sqip/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/sqip/internal/app"
	_ "go.trai.ch/sqip/internal/engine/generator"
	_ "go.trai.ch/sqip/internal/engine/queue"
)
