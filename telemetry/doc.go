// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package telemetry wires OpenTelemetry tracing. The store opens a span per
// operation through the global provider, so tracing is off (no-op spans)
// until Setup is called with an endpoint.
package telemetry
