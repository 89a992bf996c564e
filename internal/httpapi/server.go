package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-planner/internal/calendar"
	"task-planner/internal/service"
)

// Server exposes the planner over JSON HTTP.
type Server struct {
	planner *service.PlannerService
	tasks   *service.TaskService
	lists   *service.ListService
	clock   *calendar.Clock
	log     *zap.Logger
	router  *gin.Engine
}

func NewServer(planner *service.PlannerService, tasks *service.TaskService, lists *service.ListService, clock *calendar.Clock, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	router := gin.New()

	s := &Server{
		planner: planner,
		tasks:   tasks,
		lists:   lists,
		clock:   clock,
		log:     log,
		router:  router,
	}

	router.Use(gin.Recovery(), RequestLogger(log))
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api", RequireUser())
	{
		api.GET("/agenda", s.handleAgenda)
		api.GET("/archived", s.handleArchived)

		api.GET("/lists", s.handleListLists)
		api.POST("/lists", s.handleCreateList)
		api.GET("/lists/:id/tasks", s.handleListTasks)
		api.PATCH("/lists/:id", s.handleRenameList)
		api.DELETE("/lists/:id", s.handleDeleteList)

		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleTransition(s.complete))
		api.POST("/tasks/:id/uncomplete", s.handleTransition(s.uncomplete))
		api.POST("/tasks/:id/rollforward", s.handleTransition(s.rollforward))
		api.POST("/tasks/:id/archive", s.handleTransition(s.archive))
		api.POST("/tasks/:id/unarchive", s.handleTransition(s.unarchive))
		api.POST("/tasks/:id/schedule", s.handleTransition(s.schedule))
		api.DELETE("/tasks/:id/schedule/:date", s.handleTransition(s.unschedule))
	}

	return s
}

// Handler returns the underlying router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("http server stopped")
	return nil
}
