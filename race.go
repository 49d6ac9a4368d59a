// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package msq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent scenarios: hazard records hand off
// between goroutines through an inUse flag whose acquire/release
// ordering the detector cannot observe, so it reports false positives
// on the record-local buffers.
const RaceEnabled = true
