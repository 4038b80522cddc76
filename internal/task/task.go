package task

import "github.com/OpenListTeam/tache"

// Manager is the slice of tache's manager surface the app depends on.
type Manager[T tache.Task] interface {
	Add(task T)
	GetAll() []T
	GetByID(id string) (T, bool)
	GetByCondition(condition func(task T) bool) []T
	Remove(id string)
	RemoveByCondition(condition func(task T) bool)
	Cancel(id string)
	Retry(id string)
	SetWorkersNumActive(num int64)
}
