package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jing2uo/klinedata/config"
	"github.com/jing2uo/klinedata/workflow"
)

type JobOptions struct {
	Force       bool
	Purge       bool
	DryRun      bool
	Concurrency int
}

// Convert runs the conversion job, followed by purge when opts.Purge is set.
func Convert(ctx context.Context, cfg *config.Config, opts JobOptions) error {
	taskNames := []string{workflow.NameConvert}
	if opts.Purge {
		taskNames = append(taskNames, workflow.NamePurge)
	}
	return runJob(ctx, cfg, taskNames, opts)
}

func Purge(ctx context.Context, cfg *config.Config, dryRun bool) error {
	return runJob(ctx, cfg, []string{workflow.NamePurge}, JobOptions{DryRun: dryRun})
}

func runJob(ctx context.Context, cfg *config.Config, taskNames []string, opts JobOptions) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data dir cannot be empty")
	}
	start := time.Now()

	executor := workflow.NewTaskExecutor(workflow.DefaultTasks())
	for _, name := range taskNames {
		if !executor.HasTask(name) {
			return fmt.Errorf("unknown task %q (available: %s)", name, strings.Join(executor.GetTaskNames(), ", "))
		}
	}
	args := &workflow.TaskArgs{
		DataDir:     cfg.DataDir,
		Force:       opts.Force,
		DryRun:      opts.DryRun,
		Concurrency: opts.Concurrency,
		Logger:      newLogger(cfg),
		Progress:    progressPrinter("转换"),
	}

	if _, err := executor.Run(ctx, taskNames, args); err != nil {
		return fmt.Errorf("workflow execution failed: %w", err)
	}

	fmt.Printf("🚀 任务执行完成, 耗时 %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
