package service

import (
	"go.uber.org/zap"
)

// PlannerService computes agendas and applies completion, scheduling and
// rollforward transitions. It keeps no state between calls; every operation
// takes the reference day explicitly.
type PlannerService struct {
	tasks   TaskStore
	planned PlannedTaskStore
	log     *zap.Logger
}

func NewPlannerService(tasks TaskStore, planned PlannedTaskStore, log *zap.Logger) *PlannerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlannerService{tasks: tasks, planned: planned, log: log}
}

// invalidState logs a precondition violation loudly and returns err unchanged.
func (s *PlannerService) invalidState(op string, taskID uint, err error) error {
	s.log.Error("invalid task state", zap.String("op", op), zap.Uint("task_id", taskID), zap.Error(err))
	return err
}
