package config

import (
	"log/slog"

	"github.com/Norgate-AV/wcc/internal/logfields"
)

// PageSize is the WebAssembly linear memory page size in bytes
const PageSize = 0x10000

// AlignMemory rounds bytes up to the next multiple of PageSize.
// Zero and negative values are returned unchanged.
func AlignMemory(bytes int64) int64 {
	if bytes <= 0 {
		return bytes
	}

	return (bytes + PageSize - 1) / PageSize * PageSize
}

func alignWithWarning(logger *slog.Logger, bytes int64, name string) int64 {
	aligned := AlignMemory(bytes)
	if aligned != bytes {
		logger.Warn("memory size increased to page boundary",
			logfields.Field(name),
			slog.Int64("requested", bytes),
			slog.Int64("aligned", aligned))
	}

	return aligned
}
