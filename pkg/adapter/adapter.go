// Package adapter provides the database adapter registry and the
// database/sql plumbing shared by the targets a procedure runs against.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init().
package adapter

import "github.com/leapstack-labs/leapsp/pkg/core"

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter
)
