package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jing2uo/klinedata/cmd"
	"github.com/jing2uo/klinedata/config"
	"github.com/jing2uo/klinedata/service"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		configPath, dataDir, port, sourceMode, logLevel string
		cfg                                             *config.Config
	)

	var rootCmd = &cobra.Command{
		Use:           "klinedata",
		Short:         "Serve and maintain daily kline files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// 命令行参数优先级最高
			flags := c.Flags()
			if flags.Changed("datadir") {
				loaded.DataDir = dataDir
			}
			if flags.Changed("port") {
				loaded.Port = port
			}
			if flags.Changed("source") {
				loaded.SourceMode = sourceMode
			}
			if flags.Changed("log-level") {
				loaded.LogLevel = logLevel
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML 配置文件路径 (可选)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "datadir", "", "数据目录, 默认 ./data")
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "HTTP 端口, 默认 3001")
	rootCmd.PersistentFlags().StringVar(&sourceMode, "source", "", "数据来源: gz, json, auto, remote")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别: debug, info, warn, error")

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Serve(ctx, cfg)
		},
	}

	var force, purge bool
	var concurrency int
	var convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Convert .txt.gz files into .txt.json assets",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Convert(ctx, cfg, cmd.JobOptions{
				Force:       force,
				Purge:       purge,
				Concurrency: concurrency,
			})
		},
	}
	convertCmd.Flags().BoolVar(&force, "force", false, "覆盖已存在的 .json 文件")
	convertCmd.Flags().BoolVar(&purge, "purge", false, "转换后删除已转换的 .gz 文件")
	convertCmd.Flags().IntVar(&concurrency, "concurrency", 0, "并发数, 默认为 CPU 核数")

	var dryRun bool
	var purgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "Delete .txt.gz files that already have a readable .txt.json",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Purge(ctx, cfg, dryRun)
		},
	}
	purgeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "只列出将被删除的文件")

	var code, showDBPath string
	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the API response for one stock code",
		RunE: func(c *cobra.Command, args []string) error {
			if showDBPath != "" {
				return cmd.ShowFromDB(ctx, showDBPath, code, os.Stdout)
			}
			return cmd.Show(ctx, cfg, code, os.Stdout)
		},
	}
	showCmd.Flags().StringVar(&code, "code", service.DefaultCode, "股票代码")
	showCmd.Flags().StringVar(&showDBPath, "dbpath", "", "从 import 生成的 DuckDB 文件读取 (可选)")

	var format, output string
	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export all bars to one csv or parquet file",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Export(ctx, cfg, format, output, concurrency)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "输出格式: csv, parquet")
	exportCmd.Flags().StringVar(&output, "output", "", "输出目录 (必填)")
	exportCmd.Flags().IntVar(&concurrency, "concurrency", 0, "并发数, 默认为 CPU 核数")
	exportCmd.MarkFlagRequired("output")

	var dbPath string
	var importCmd = &cobra.Command{
		Use:   "import",
		Short: "Load all bars into a DuckDB file for offline analysis",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Import(ctx, cfg, dbPath, concurrency)
		},
	}
	importCmd.Flags().StringVar(&dbPath, "dbpath", "", "DuckDB 文件路径 (必填)")
	importCmd.Flags().IntVar(&concurrency, "concurrency", 0, "并发数, 默认为 CPU 核数")
	importCmd.MarkFlagRequired("dbpath")

	rootCmd.AddCommand(serveCmd, convertCmd, purgeCmd, showCmd, exportCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "🛑 错误: %v\n", err)
		stop()
		os.Exit(1)
	}
}
