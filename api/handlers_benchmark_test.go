package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"

	"taskboard-api/domain"
)

func BenchmarkGetTasks(b *testing.B) {
	board := make([]domain.Task, 120)
	now := time.Now().UTC()
	for i := range board {
		board[i] = domain.Task{
			ID:          fmt.Sprintf("task-%03d", i),
			Title:       fmt.Sprintf("Task %d", i),
			Description: "benchmark payload with a realistic description length for a card",
			Status:      domain.Statuses[i%len(domain.Statuses)],
			Labels:      []domain.Label{{Name: "bench", Color: "#333"}},
			Position:    i % 10,
			CreatedAt:   now.Add(-time.Duration(i) * time.Minute),
			UpdatedAt:   now,
		}
	}
	svc := &mockTasks{getTasksFn: func(context.Context) ([]domain.Task, error) {
		return board, nil
	}}
	logger, _ := test.NewNullLogger()
	e := echo.New()
	Register(e, svc, logger)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("expected 200, got %d", rec.Code)
		}
	}
}
