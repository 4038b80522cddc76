package bootstrap

import (
	"github.com/OpenListTeam/tache"
	"github.com/driveguard/driveguard/internal/conf"
	"github.com/driveguard/driveguard/internal/scan"
)

func taskFilterNegative(num int) int {
	if num < 0 {
		num = 0
	}
	return num
}

// InitTaskManager builds the scan worker pool. Workers <= 1 means the
// runner takes the sequential path and the manager sits idle.
func InitTaskManager() {
	scan.TaskManager = tache.NewManager[*scan.ScanTask](
		tache.WithWorks(taskFilterNegative(conf.Conf.Tasks.Workers)),
		tache.WithMaxRetry(conf.Conf.Tasks.MaxRetry),
	)
}
