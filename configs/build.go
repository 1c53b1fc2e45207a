// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release of i18n-inline.
const BuildVersion string = "v0.4.0"

// buildInfo is what the Go toolchain stamped into the binary.
type buildInfo struct {
	// ModuleVersion is the main module version, empty for "(devel)" builds.
	ModuleVersion string
	VcsRevision   string
	VcsTime       string
	VcsModified   bool
}

// Revision is "<commit date>-<short hash>[+dirty]", or "unknown" for
// builds without VCS stamping such as go run or go test.
func (b *buildInfo) Revision() string {
	if b.VcsRevision == "" {
		return "unknown"
	}

	date, _, _ := strings.Cut(b.VcsTime, "T")

	s := date + "-" + b.VcsRevision[:min(8, len(b.VcsRevision))]
	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

// Version prefers the module version of an installed binary over BuildVersion.
func (b *buildInfo) Version() string {
	if b.ModuleVersion != "" {
		return b.ModuleVersion
	}

	return BuildVersion
}

func (b *buildInfo) load() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if v := info.Main.Version; v != "(devel)" {
		b.ModuleVersion = v
	}

	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			b.VcsRevision = kv.Value
		case "vcs.time":
			b.VcsTime = kv.Value
		case "vcs.modified":
			b.VcsModified = kv.Value == "true"
		}
	}
}

// Version returns the version and VCS revision of this binary.
func Version() string {
	var b buildInfo

	b.load()

	return b.Version() + " (" + b.Revision() + ")"
}
