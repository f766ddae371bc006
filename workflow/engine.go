package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// TaskState represents the state of a task execution
type TaskState string

const (
	StatePending   TaskState = "pending"
	StateRunning   TaskState = "running"
	StateCompleted TaskState = "completed"
	StateSkipped   TaskState = "skipped"
	StateFailed    TaskState = "failed"
)

// TaskResult holds the execution result of a task
type TaskResult struct {
	State   TaskState
	Rows    int
	Message string
	Error   error
}

type ErrorMode int

const (
	ErrorModeStop ErrorMode = iota
	ErrorModeSkip
)

// TaskFunc is the function that executes a task
type TaskFunc func(ctx context.Context, args *TaskArgs) (*TaskResult, error)

// SkipCondition determines if a task should be skipped
type SkipCondition func(ctx context.Context, args *TaskArgs) bool

// Task represents a unit of work with dependencies
type Task struct {
	Name      string
	DependsOn []string
	Executor  TaskFunc
	SkipIf    SkipCondition
	OnError   ErrorMode
}

type TaskArgs struct {
	DataDir     string
	Force       bool
	DryRun      bool
	Concurrency int
	Logger      *logrus.Logger
	Progress    func(done, total int)
}

// TaskExecutor manages and executes tasks with dependency resolution
type TaskExecutor struct {
	tasks map[string]*Task
}

// NewTaskExecutor creates a new task executor
func NewTaskExecutor(tasks map[string]*Task) *TaskExecutor {
	return &TaskExecutor{tasks: tasks}
}

// Run executes the named tasks. Dependencies outside taskNames are treated as
// satisfied. The returned map holds a result for every task that was reached.
func (te *TaskExecutor) Run(ctx context.Context, taskNames []string, args *TaskArgs) (map[string]*TaskResult, error) {
	results := make(map[string]*TaskResult)
	if len(taskNames) == 0 {
		return results, nil
	}

	order, err := te.topologicalSort(taskNames)
	if err != nil {
		return results, fmt.Errorf("failed to resolve task dependencies: %w", err)
	}

	pending := make(map[string]bool)
	for _, name := range order {
		pending[name] = true
	}

	var mu sync.Mutex
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		ready := te.findReadyTasks(pending, results)
		if len(ready) == 0 {
			return results, fmt.Errorf("circular dependency detected or no ready tasks")
		}

		var wg sync.WaitGroup
		for _, name := range ready {
			task := te.tasks[name]

			if task.SkipIf != nil && task.SkipIf(ctx, args) {
				mu.Lock()
				results[name] = &TaskResult{State: StateSkipped, Message: "skipped by condition"}
				mu.Unlock()
				continue
			}

			wg.Add(1)
			go func(n string, t *Task) {
				defer wg.Done()
				r := te.executeTask(ctx, t, args)
				mu.Lock()
				results[n] = r
				mu.Unlock()
			}(name, task)
		}

		wg.Wait()

		for _, name := range ready {
			delete(pending, name)
			result := results[name]
			if result.Error != nil && te.tasks[name].OnError == ErrorModeStop {
				return results, fmt.Errorf("task %s failed: %w", name, result.Error)
			}
		}
	}

	return results, nil
}

func (te *TaskExecutor) executeTask(ctx context.Context, task *Task, args *TaskArgs) *TaskResult {
	result, err := task.Executor(ctx, args)
	if err != nil {
		return &TaskResult{
			State: StateFailed,
			Error: err,
		}
	}
	if result == nil {
		return &TaskResult{State: StateCompleted}
	}
	return result
}

func (te *TaskExecutor) topologicalSort(taskNames []string) ([]string, error) {
	inDegree := make(map[string]int)
	adj := make(map[string][]string)
	taskSet := make(map[string]bool)

	for _, name := range taskNames {
		if _, exists := te.tasks[name]; !exists {
			return nil, fmt.Errorf("task %s not found", name)
		}
		if taskSet[name] {
			continue
		}
		taskSet[name] = true
		inDegree[name] = 0
	}

	for name := range taskSet {
		for _, dep := range te.tasks[name].DependsOn {
			if !taskSet[dep] {
				continue
			}
			adj[dep] = append(adj[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, neighbor := range adj[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(order) != len(taskSet) {
		return nil, fmt.Errorf("circular dependency detected")
	}

	return order, nil
}

func (te *TaskExecutor) findReadyTasks(pending map[string]bool, results map[string]*TaskResult) []string {
	var ready []string

	for name := range pending {
		task := te.tasks[name]

		allDepsDone := true
		for _, dep := range task.DependsOn {
			if !pending[dep] {
				if result, ran := results[dep]; !ran || result.State == StateCompleted || result.State == StateSkipped {
					continue
				}
				// 依赖失败但允许跳过
				if te.tasks[dep].OnError == ErrorModeSkip {
					continue
				}
			}
			allDepsDone = false
			break
		}

		if allDepsDone {
			ready = append(ready, name)
		}
	}

	sort.Strings(ready)
	return ready
}

func (te *TaskExecutor) GetTaskNames() []string {
	names := make([]string, 0, len(te.tasks))
	for name := range te.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (te *TaskExecutor) HasTask(name string) bool {
	_, exists := te.tasks[name]
	return exists
}
