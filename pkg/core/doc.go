// Package core defines the shared language of leapsp.
//
// This package contains:
//   - The adapter contract (Adapter, AdapterConfig)
//   - Target configuration (TargetConfig)
//   - Run history entities (Run, RunStatus, RunStore)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
