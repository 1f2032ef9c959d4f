package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"usage-graph/internal/analyzer"
	"usage-graph/internal/config"
	"usage-graph/internal/graph"
	"usage-graph/internal/logging"
	"usage-graph/internal/pipeline"
	"usage-graph/internal/renderer"
)

var (
	configPath   string
	dbType       string
	connStr      string
	schema       string
	database     string
	cluster      string
	usageTable   string
	inputFile    string
	outputDir    string
	includeUsers bool
	verbose      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "usage-graph",
		Short:        "表使用情况图模型发布工具",
		Long:         "从数据库读取表结构与列读取统计，转换为图节点和关系，生成批量导入文件",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML 配置文件")
	flags.StringVar(&dbType, "type", "mysql", "数据源类型 (mysql/sqlserver/csv)")
	flags.StringVar(&connStr, "conn", "", "连接字符串")
	flags.StringVar(&schema, "schema", "", "数据库 schema (MySQL 必需)")
	flags.StringVar(&database, "database", "", "图中的数据库名（默认取数据源类型）")
	flags.StringVar(&cluster, "cluster", "default", "集群名")
	flags.StringVar(&usageTable, "usage-table", "column_usage", "使用统计表")
	flags.StringVar(&inputFile, "input", "", "使用统计 CSV 文件（等同于 --type csv --conn FILE）")
	flags.StringVar(&outputDir, "output", "./output", "输出目录")
	flags.BoolVar(&includeUsers, "include-users", false, "为每个读者单独发布 User 模型")
	flags.BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "publish",
			Short: "抽取并生成 CSV 与 Cypher 导入文件",
			RunE:  runPublish,
		},
		&cobra.Command{
			Use:   "inspect",
			Short: "抽取并以 JSON 输出图记录",
			RunE:  runInspect,
		},
		&cobra.Command{
			Use:   "report",
			Short: "生成使用报告和 Mermaid 图",
			RunE:  runReport,
		},
	)
	return rootCmd
}

// loadConfig 合并配置文件、环境变量和命令行参数
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("type") {
		cfg.DBType = dbType
	}
	if flags.Changed("conn") {
		cfg.Conn = connStr
	}
	if flags.Changed("schema") {
		cfg.Schema = schema
	}
	if flags.Changed("database") {
		cfg.Database = database
	}
	if flags.Changed("cluster") {
		cfg.Cluster = cluster
	}
	if flags.Changed("usage-table") {
		cfg.UsageTable = usageTable
	}
	if flags.Changed("output") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("include-users") {
		cfg.IncludeUsers = includeUsers
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("input") {
		cfg.DBType = "csv"
		cfg.Conn = inputFile
	}

	return cfg, cfg.Validate()
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.Default(cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Println("🔍 开始抽取使用统计...")
	res, err := pipeline.Run(ctx, cfg, logger, func(done, total int) {
		if done%100 == 0 || done == total {
			logger.Debug("进度: %d/%d", done, total)
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ 发布 %d 个模型: %d 个节点, %d 条关系\n", res.Stats.Models, res.Stats.Nodes, res.Stats.Relations)
	for _, f := range res.Files {
		fmt.Printf("✓ %s\n", f)
	}

	warnDangling(res.Graph, logger)
	fmt.Println("\n✅ 发布完成！")
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.Default(cfg.Verbose)

	g, err := collect(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	data, err := g.ToJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	warnDangling(g, logger)
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.Default(cfg.Verbose)

	g, err := collect(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	fmt.Println("\n📝 生成报告...")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}

	reportPath := filepath.Join(cfg.OutputDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(renderer.NewMarkdownRenderer().Render(g)), 0644); err != nil {
		return err
	}
	fmt.Printf("✓ %s\n", reportPath)

	mermaidPath := filepath.Join(cfg.OutputDir, "graph.mmd")
	if err := os.WriteFile(mermaidPath, []byte(renderer.NewMermaidRenderer().Render(g)), 0644); err != nil {
		return err
	}
	fmt.Printf("✓ %s\n", mermaidPath)
	return nil
}

func collect(ctx context.Context, cfg config.Config, logger *logging.Logger) (*graph.Graph, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return pipeline.Collect(ctx, cfg, logger)
}

// warnDangling 提示无法关联到节点的 key
func warnDangling(g *graph.Graph, logger *logging.Logger) {
	for _, d := range analyzer.NewKeyChecker().FindDangling(g) {
		if d.Suggestion != "" {
			logger.Info("%s key %q 没有对应节点，可能是 %q (%.2f)", d.Label, d.Key, d.Suggestion, d.Similarity)
		} else {
			logger.Debug("%s key %q 没有对应节点", d.Label, d.Key)
		}
	}
}
