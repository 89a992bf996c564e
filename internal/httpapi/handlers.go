package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
	"task-planner/internal/service"
)

type createTaskRequest struct {
	ListID    uint   `json:"list_id"`
	List      string `json:"list"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
	Recurring string `json:"recurring"`
	DueDate   string `json:"due_date"`
	Order     *int   `json:"order"`
}

type updateTaskRequest struct {
	ListID       *uint   `json:"list_id"`
	Title        *string `json:"title"`
	Notes        *string `json:"notes"`
	Recurring    *string `json:"recurring"`
	DueDate      *string `json:"due_date"`
	ClearDueDate bool    `json:"clear_due_date"`
	Order        *int    `json:"order"`
	ClearOrder   bool    `json:"clear_order"`
}

type listRequest struct {
	Name             string `json:"name"`
	RecurringDefault string `json:"recurring_default"`
}

type scheduleRequest struct {
	Date string `json:"date"`
}

type idResponse struct {
	ID uint `json:"id"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Agenda

func (s *Server) handleAgenda(c *gin.Context) {
	today := s.clock.Today()
	day := today
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDay(raw)
		if err != nil {
			s.writeError(c, err)
			return
		}
		day = parsed
	}

	ctx := c.Request.Context()
	if _, err := s.planner.RollforwardOverdue(ctx, userID(c), today); err != nil {
		s.writeError(c, err)
		return
	}
	views, err := s.planner.Agenda(ctx, userID(c), day, today)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "today": today, "tasks": views})
}

func (s *Server) handleArchived(c *gin.Context) {
	views, err := s.planner.Archived(c.Request.Context(), userID(c), s.clock.Today())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": views})
}

// Lists

func (s *Server) handleListLists(c *gin.Context) {
	lists, err := s.lists.List(c.Request.Context(), userID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if lists == nil {
		lists = []model.List{}
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

func (s *Server) handleCreateList(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	list, err := s.lists.Create(c.Request.Context(), userID(c), req.Name, model.Recurring(req.RecurringDefault))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (s *Server) handleListTasks(c *gin.Context) {
	listID, err := parseID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := s.lists.Get(ctx, userID(c), listID); err != nil {
		s.writeError(c, err)
		return
	}
	views, err := s.planner.ListTasks(ctx, userID(c), listID, s.clock.Today())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": views})
}

func (s *Server) handleRenameList(c *gin.Context) {
	listID, err := parseID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := s.lists.Rename(c.Request.Context(), userID(c), listID, req.Name); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idResponse{ID: listID})
}

func (s *Server) handleDeleteList(c *gin.Context) {
	listID, err := parseID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.lists.Delete(c.Request.Context(), userID(c), listID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idResponse{ID: listID})
}

// Tasks

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	input := service.TaskInput{
		ListID:    req.ListID,
		ListName:  req.List,
		Title:     req.Title,
		Notes:     req.Notes,
		Recurring: model.Recurring(req.Recurring),
		Order:     req.Order,
	}
	if req.DueDate != "" {
		due, err := parseDay(req.DueDate)
		if err != nil {
			s.writeError(c, err)
			return
		}
		input.DueDate = &due
	}

	task, err := s.tasks.CreateTask(c.Request.Context(), userID(c), input)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	view, err := s.planner.GetTask(c.Request.Context(), userID(c), taskID, s.clock.Today())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	patch := service.TaskPatch{
		ListID:       req.ListID,
		Title:        req.Title,
		Notes:        req.Notes,
		ClearDueDate: req.ClearDueDate,
		Order:        req.Order,
		ClearOrder:   req.ClearOrder,
	}
	if req.Recurring != nil {
		kind := model.Recurring(*req.Recurring)
		patch.Recurring = &kind
	}
	if req.DueDate != nil {
		due, err := parseDay(*req.DueDate)
		if err != nil {
			s.writeError(c, err)
			return
		}
		patch.DueDate = &due
	}

	id, err := s.tasks.UpdateTask(c.Request.Context(), userID(c), taskID, patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idResponse{ID: id})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	task, err := s.tasks.DeleteTask(c.Request.Context(), userID(c), taskID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Transitions

type transition func(c *gin.Context, userID, taskID uint) (uint, error)

func (s *Server) handleTransition(fn transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := parseID(c.Param("id"))
		if err != nil {
			s.writeError(c, err)
			return
		}
		id, err := fn(c, userID(c), taskID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, idResponse{ID: id})
	}
}

func (s *Server) complete(c *gin.Context, userID, taskID uint) (uint, error) {
	return s.planner.Complete(c.Request.Context(), userID, taskID, s.clock.Today())
}

func (s *Server) uncomplete(c *gin.Context, userID, taskID uint) (uint, error) {
	return s.planner.Uncomplete(c.Request.Context(), userID, taskID, s.clock.Today())
}

func (s *Server) rollforward(c *gin.Context, userID, taskID uint) (uint, error) {
	return s.planner.Rollforward(c.Request.Context(), userID, taskID, s.clock.Today())
}

func (s *Server) archive(c *gin.Context, userID, taskID uint) (uint, error) {
	return s.tasks.Archive(c.Request.Context(), userID, taskID)
}

func (s *Server) unarchive(c *gin.Context, userID, taskID uint) (uint, error) {
	return s.tasks.Unarchive(c.Request.Context(), userID, taskID)
}

func (s *Server) schedule(c *gin.Context, userID, taskID uint) (uint, error) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	day, err := parseDay(req.Date)
	if err != nil {
		return 0, err
	}
	return s.planner.Schedule(c.Request.Context(), userID, taskID, day)
}

func (s *Server) unschedule(c *gin.Context, userID, taskID uint) (uint, error) {
	day, err := parseDay(c.Param("date"))
	if err != nil {
		return 0, err
	}
	return s.planner.Unschedule(c.Request.Context(), userID, taskID, day)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return uint(id), nil
}

func parseDay(raw string) (calendar.Day, error) {
	day, err := calendar.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return day, nil
}
