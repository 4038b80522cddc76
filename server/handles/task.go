package handles

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/OpenListTeam/tache"
	"github.com/driveguard/driveguard/internal/model"
	"github.com/driveguard/driveguard/internal/scan"
	"github.com/driveguard/driveguard/pkg/utils"
	"github.com/driveguard/driveguard/server/common"
	"github.com/gin-gonic/gin"
)

// TaskInfo is the wire shape of one scan task.
type TaskInfo struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	State      tache.State     `json:"state"`
	Status     string          `json:"status"`
	Progress   float64         `json:"progress"`
	Result     model.RunResult `json:"result,omitempty"`
	StartedAt  *time.Time      `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at"`
	Error      string          `json:"error"`
}

const (
	defaultTaskPageSize = 20
	maxTaskPageSize     = 200
)

var undoneStates = []tache.State{
	tache.StatePending,
	tache.StateRunning,
	tache.StateCanceling,
	tache.StateErrored,
	tache.StateFailing,
	tache.StateWaitingRetry,
	tache.StateBeforeRetry,
}

var doneStates = []tache.State{
	tache.StateCanceled,
	tache.StateFailed,
	tache.StateSucceeded,
}

type taskListQuery struct {
	page     int
	pageSize int
	orderBy  string
	reverse  bool
	regex    *regexp.Regexp
}

func getTaskInfo(t *scan.ScanTask) TaskInfo {
	errMsg := ""
	if t.GetErr() != nil {
		errMsg = t.GetErr().Error()
	}
	progress := t.GetProgress()
	// if progress is NaN, set it to 100
	if math.IsNaN(progress) {
		progress = 100
	}
	started, finished := t.Times()
	return TaskInfo{
		ID:         t.GetID(),
		Name:       t.GetName(),
		State:      t.GetState(),
		Status:     t.GetStatus(),
		Progress:   progress,
		Result:     t.Result(),
		StartedAt:  started,
		FinishedAt: finished,
		Error:      errMsg,
	}
}

func getTaskInfos(tasks []*scan.ScanTask) []TaskInfo {
	return utils.MustSliceConvert(tasks, getTaskInfo)
}

func parseTaskListQuery(c *gin.Context) (taskListQuery, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultTaskPageSize)))
	if err != nil || pageSize <= 0 {
		pageSize = defaultTaskPageSize
	}
	if pageSize > maxTaskPageSize {
		pageSize = maxTaskPageSize
	}
	orderBy := strings.ToLower(c.DefaultQuery("order_by", "name"))
	switch orderBy {
	case "name", "state", "progress":
	default:
		orderBy = "name"
	}
	order := strings.ToLower(c.DefaultQuery("order", ""))
	reverse := order == "desc" || order == "true"
	var compiled *regexp.Regexp
	if reg := c.Query("regex"); reg != "" {
		r, err := regexp.Compile(reg)
		if err != nil {
			return taskListQuery{}, err
		}
		compiled = r
	}
	return taskListQuery{
		page:     page,
		pageSize: pageSize,
		orderBy:  orderBy,
		reverse:  reverse,
		regex:    compiled,
	}, nil
}

func taskProgressValue(t *scan.ScanTask) float64 {
	progress := t.GetProgress()
	if math.IsNaN(progress) {
		return 100
	}
	return progress
}

func compareString(a, b string) int {
	switch {
	case a == b:
		return 0
	case a > b:
		return 1
	default:
		return -1
	}
}

func compareState(a, b tache.State) int {
	switch {
	case a == b:
		return 0
	case a > b:
		return 1
	default:
		return -1
	}
}

func sortTasks(tasks []*scan.ScanTask, orderBy string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a := tasks[i]
		b := tasks[j]
		var cmp int
		switch orderBy {
		case "state":
			cmp = compareState(a.GetState(), b.GetState())
		case "progress":
			pa := taskProgressValue(a)
			pb := taskProgressValue(b)
			switch {
			case pa == pb:
				cmp = compareString(a.GetID(), b.GetID())
			case pa > pb:
				cmp = -1
			default:
				cmp = 1
			}
		default:
			cmp = compareString(a.GetName(), b.GetName())
		}
		if cmp == 0 {
			cmp = compareString(a.GetID(), b.GetID())
		}
		if reverse {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func taskListHandler(states ...tache.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, err := parseTaskListQuery(c)
		if err != nil {
			common.ErrorStrResp(c, err.Error(), 400)
			return
		}
		tasks := scan.TaskManager.GetByCondition(func(t *scan.ScanTask) bool {
			if !utils.SliceContains(states, t.GetState()) {
				return false
			}
			if query.regex != nil && !query.regex.MatchString(t.GetName()) {
				return false
			}
			return true
		})
		sortTasks(tasks, query.orderBy, query.reverse)
		total := len(tasks)
		start := (query.page - 1) * query.pageSize
		if start > total {
			start = total
		}
		end := start + query.pageSize
		if end > total {
			end = total
		}
		common.SuccessResp(c, common.PageResp{
			Content: getTaskInfos(tasks[start:end]),
			Total:   int64(total),
		})
	}
}

func getTargetedHandler(callback func(c *gin.Context, task *scan.ScanTask)) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := scan.TaskManager.GetByID(c.Query("tid"))
		if !ok {
			common.ErrorStrResp(c, "task not found", 404)
			return
		}
		callback(c, t)
	}
}

// SetupTaskRoute wires the task inspection endpoints used while a pass is
// running in serve mode.
func SetupTaskRoute(g *gin.RouterGroup) {
	g.GET("/undone", taskListHandler(undoneStates...))
	g.GET("/done", taskListHandler(doneStates...))
	g.POST("/info", getTargetedHandler(func(c *gin.Context, task *scan.ScanTask) {
		common.SuccessResp(c, getTaskInfo(task))
	}))
	g.POST("/cancel", getTargetedHandler(func(c *gin.Context, task *scan.ScanTask) {
		scan.TaskManager.Cancel(task.GetID())
		common.SuccessResp(c)
	}))
	g.POST("/delete", getTargetedHandler(func(c *gin.Context, task *scan.ScanTask) {
		scan.TaskManager.Remove(task.GetID())
		common.SuccessResp(c)
	}))
	g.POST("/retry", getTargetedHandler(func(c *gin.Context, task *scan.ScanTask) {
		scan.TaskManager.Retry(task.GetID())
		common.SuccessResp(c)
	}))
	g.POST("/clear_done", func(c *gin.Context) {
		scan.TaskManager.RemoveByCondition(func(t *scan.ScanTask) bool {
			return utils.SliceContains(doneStates, t.GetState())
		})
		common.SuccessResp(c)
	})
	g.POST("/retry_failed", func(c *gin.Context) {
		tasks := scan.TaskManager.GetByCondition(func(t *scan.ScanTask) bool {
			return t.GetState() == tache.StateFailed
		})
		for _, t := range tasks {
			scan.TaskManager.Retry(t.GetID())
		}
		common.SuccessResp(c)
	})
}
