package menu

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"menu-planner/internal/core/recipe"
	"menu-planner/internal/pkg/common"
)

func TestQueueRunsJobsOneAtATime(t *testing.T) {
	q := NewQueue(10)
	defer q.Close()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Do(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			if err != nil {
				t.Errorf("Do() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("%d jobs ran at once, want 1", maxActive)
	}
	if got := q.Status().ProcessedCount; got != 5 {
		t.Errorf("processed = %d, want 5", got)
	}
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(1)
	defer q.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	go q.Do(context.Background(), func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	go q.Do(context.Background(), func(ctx context.Context) error { return nil })
	deadline := time.Now().Add(time.Second)
	for q.Status().QueueLength != 1 {
		if time.Now().After(deadline) {
			t.Fatal("second job never queued")
		}
		time.Sleep(time.Millisecond)
	}

	err := q.Do(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, common.ErrQueueFull) {
		t.Errorf("Do() error = %v, want ErrQueueFull", err)
	}
	close(release)
}

func TestQueueReturnsJobError(t *testing.T) {
	q := NewQueue(2)
	defer q.Close()

	boom := errors.New("boom")
	if err := q.Do(context.Background(), func(ctx context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want boom", err)
	}
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(2)
	q.Close()
	err := q.Do(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, common.ErrServiceUnavailable) {
		t.Errorf("Do() error = %v, want ErrServiceUnavailable", err)
	}
}

func TestSchedulerPlanDays(t *testing.T) {
	catalog := &fakeCatalog{recipes: lunchPool(3)}
	history := newFakeHistory()
	q := NewQueue(4)
	defer q.Close()
	s := NewScheduler(newTestPlanner(catalog, history, 7), q)

	report, err := s.PlanDays(context.Background(), week[:3])
	if err != nil {
		t.Fatalf("PlanDays() error = %v", err)
	}
	if len(report.Menu) != 3 || len(report.Recipes) != 3 {
		t.Errorf("report has %d days and %d recipes, want 3 and 3", len(report.Menu), len(report.Recipes))
	}
	if got := *report.Totals[week[0]].Calories.Total; got != 100 {
		t.Errorf("day total = %v, want 100", got)
	}

	report, err = s.RegenerateDay(context.Background(), week[0])
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := report.Menu[week[0]][recipe.TagLunch]; !ok {
		t.Errorf("regenerated report = %+v", report.Menu)
	}

	calls := history.calls
	if _, err := s.PlanDays(context.Background(), []string{"nope"}); !errors.Is(err, common.ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
	if history.calls != calls {
		t.Error("invalid date reached the history store")
	}
}
