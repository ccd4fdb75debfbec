package health

import (
	"context"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskSpaceName is the registry name of the built-in disk-space indicator.
const DiskSpaceName = "diskSpace"

// DiskSpaceConfig configures the disk-space indicator.
type DiskSpaceConfig struct {
	// Threshold is the minimum free space in bytes below which the
	// indicator reports DOWN. Default: 10 MiB.
	Threshold uint64

	// Path is the filesystem path whose mount is inspected. Default: ".".
	Path string
}

// DiskSpace reports UP while the free space on a filesystem stays at or
// above a threshold.
type DiskSpace struct {
	config DiskSpaceConfig
}

// NewDiskSpace creates a new disk-space indicator.
func NewDiskSpace(config DiskSpaceConfig) *DiskSpace {
	if config.Threshold == 0 {
		config.Threshold = 10 * 1024 * 1024
	}
	if config.Path == "" {
		config.Path = "."
	}
	return &DiskSpace{config: config}
}

// Name returns the name of this indicator.
func (d *DiskSpace) Name() string {
	return DiskSpaceName
}

// Check inspects the filesystem holding the configured path. A failed
// lookup reports UNKNOWN rather than DOWN, since it says nothing about the
// space actually left.
func (d *DiskSpace) Check(ctx context.Context) Result {
	usage, err := disk.UsageWithContext(ctx, d.config.Path)
	if err != nil {
		return Unknown(err).WithDetails(map[string]any{
			"path": d.config.Path,
		})
	}

	details := map[string]any{
		"total":     usage.Total,
		"free":      usage.Free,
		"threshold": d.config.Threshold,
		"path":      d.config.Path,
	}

	if usage.Free < d.config.Threshold {
		return Result{Status: StatusDown}.WithDetails(details)
	}
	return Up().WithDetails(details)
}
