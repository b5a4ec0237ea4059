package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
)

// Register wires up all API routes on the provided Echo instance and
// installs the centralized error translator.
func Register(e *echo.Echo, svc Tasks, logger *log.Logger) {
	e.HTTPErrorHandler = errorHandler(logger)
	e.POST("/tasks", createTask(svc))
	e.GET("/tasks", getTasks(svc, logger))
	e.GET("/tasks/:id", getTask(svc))
	e.PUT("/tasks/:id", updateTask(svc))
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// decodeBody reads a size-capped JSON body into dst. Unknown fields are
// rejected so typos in field names surface instead of being dropped.
func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

// pathTaskID validates the :id path segment. Task ids are uuids; anything
// else is a malformed reference, not a miss.
func pathTaskID(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.NewValidationError("id", "id must be a valid task id")
	}
	return id, nil
}

func createTask(svc Tasks) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return err
		}

		var details []domain.FieldError
		if strings.TrimSpace(req.Title) == "" {
			details = append(details, domain.FieldError{Field: "title", Message: "title is required"})
		}
		for _, l := range req.Labels {
			if strings.TrimSpace(l.Name) == "" {
				details = append(details, domain.FieldError{Field: "labels", Message: "label name is required"})
				break
			}
		}
		if len(details) > 0 {
			return &domain.ValidationError{Details: details}
		}

		task, err := svc.CreateTask(c.Request().Context(), domain.Fields{
			Title:       req.Title,
			Description: req.Description,
			Labels:      req.Labels,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func getTasks(svc Tasks, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			// The error translator has not written the response yet when
			// this runs, so a failed request still shows the default 200
			// on the response object. Derive the status from the error.
			status := c.Response().Status
			if err != nil {
				status = statusForError(err)
			}
			metrics.Log(status, err)
		}()

		fetchStart := time.Now()
		tasks, fetchErr := svc.GetTasks(ctx)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			err = fetchErr
			return err
		}
		metrics.SetTasksReturned(len(tasks))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, tasks)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func getTask(svc Tasks) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathTaskID(c)
		if err != nil {
			return err
		}
		task, err := svc.GetTaskByID(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, task)
	}
}

func updateTask(svc Tasks) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathTaskID(c)
		if err != nil {
			return err
		}

		var req updateTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return err
		}

		patch := domain.Patch{
			Title:       req.Title,
			Description: req.Description,
			Position:    req.Position,
		}
		if req.Status != nil {
			status := domain.Status(*req.Status)
			patch.Status = &status
		}
		if req.Labels != nil {
			patch.Labels = *req.Labels
			patch.HasLabels = true
		}
		if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
			return domain.NewValidationError("title", "title must not be empty")
		}

		ctx := c.Request().Context()
		var task domain.Task
		if patch.IsStatusOnly() {
			task, err = svc.UpdateTaskStatus(ctx, id, *patch.Status)
		} else {
			task, err = svc.UpdateTask(ctx, id, patch)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, task)
	}
}
