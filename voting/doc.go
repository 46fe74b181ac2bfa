// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package voting decides what a vote button press does under the configured
// policy and delegates the write to the store's atomic vote primitive.
package voting
