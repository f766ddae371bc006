package workflow

import (
	"context"
	"fmt"

	"github.com/jing2uo/klinedata/convert"
	"github.com/jing2uo/klinedata/utils"
)

const (
	NameConvert = "convert"
	NamePurge   = "purge"
)

var (
	TaskConvert *Task
	TaskPurge   *Task
)

func init() {
	TaskConvert = &Task{
		Name:      NameConvert,
		DependsOn: []string{},
		Executor:  executeConvert,
	}

	// 只删除已成功转换的源文件
	TaskPurge = &Task{
		Name:      NamePurge,
		DependsOn: []string{NameConvert},
		Executor:  executePurge,
	}
}

// DefaultTasks returns the conversion job: convert, then purge.
func DefaultTasks() map[string]*Task {
	return map[string]*Task{
		TaskConvert.Name: TaskConvert,
		TaskPurge.Name:   TaskPurge,
	}
}

func executeConvert(ctx context.Context, args *TaskArgs) (*TaskResult, error) {
	fmt.Printf("📦 开始处理数据目录: %s\n", args.DataDir)
	if err := utils.CheckDirectory(args.DataDir); err != nil {
		return nil, err
	}

	fmt.Println("🐢 开始转换 gzip 数据为 JSON")
	report, err := convert.ConvertAssets(ctx, args.DataDir, convert.Options{
		Force:       args.Force,
		Concurrency: args.Concurrency,
		Logger:      args.Logger,
		Progress:    args.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to convert assets: %w", err)
	}

	if report.Total == 0 {
		fmt.Println("🌲 没有需要转换的 .gz 文件")
		return &TaskResult{State: StateSkipped, Message: "no gzip sources"}, nil
	}

	fmt.Printf("✅ 转换完成: 成功 %d, 跳过 %d, 失败 %d, 共 %d 条日线\n",
		report.Converted, report.Skipped, report.Failed, report.Bars)
	if report.ErrorSummary != "" {
		fmt.Printf("⚠️ %s\n", report.ErrorSummary)
	}

	return &TaskResult{
		State:   StateCompleted,
		Rows:    report.Converted,
		Message: fmt.Sprintf("%d converted, %d skipped, %d failed", report.Converted, report.Skipped, report.Failed),
	}, nil
}

func executePurge(ctx context.Context, args *TaskArgs) (*TaskResult, error) {
	if args.DryRun {
		fmt.Println("🔍 预演模式，不会删除任何文件")
	} else {
		fmt.Println("🧹 开始清理已转换的 .gz 文件")
	}

	report, err := convert.PurgeSources(ctx, args.DataDir, args.DryRun, args.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to purge sources: %w", err)
	}

	if report.Candidates == 0 {
		fmt.Println("🌲 没有需要清理的 .gz 文件")
		return &TaskResult{State: StateSkipped, Message: "no gzip sources"}, nil
	}

	verb := "已删除"
	if args.DryRun {
		verb = "将删除"
	}
	fmt.Printf("🗑️ %s %d 个文件, 保留 %d 个\n", verb, len(report.Deleted), len(report.Kept))

	return &TaskResult{
		State:   StateCompleted,
		Rows:    len(report.Deleted),
		Message: fmt.Sprintf("%d deleted, %d kept", len(report.Deleted), len(report.Kept)),
	}, nil
}
