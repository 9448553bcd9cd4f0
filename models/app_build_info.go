// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppInfo carries the application name and version reported by the health
// and version endpoints, plus build metadata injected by linker flags.
type AppInfo struct {
	Name    string
	Version string

	BuildDate   string
	BuildCommit string
}
