// Package service contains the application logic backing the HTTP and
// JSON-RPC fronts of the exchange node.
package service

import "log/slog"

// BaseService provides common dependencies for service types.
type BaseService struct {
	logger *slog.Logger
}
