package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"usage-graph/internal/config"
	"usage-graph/internal/logging"
	"usage-graph/internal/pipeline"
	"usage-graph/internal/publisher"
)

// 任务状态
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// PublishRequest 发布请求
type PublishRequest struct {
	DBType       string `json:"db_type"`       // mysql/sqlserver/csv
	Conn         string `json:"conn"`          // 连接字符串或 CSV 路径
	Schema       string `json:"schema"`        // Schema（MySQL需要）
	Database     string `json:"database"`      // 图中的数据库名
	Cluster      string `json:"cluster"`       // 集群名
	UsageTable   string `json:"usage_table"`   // 使用统计表
	IncludeUsers bool   `json:"include_users"` // 是否单独发布用户
}

// PublishTask 发布任务
type PublishTask struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Progress  int              `json:"progress"` // 0-100
	Message   string           `json:"message"`
	OutputDir string           `json:"output_dir"`
	Stats     *publisher.Stats `json:"stats,omitempty"`
	Files     []string         `json:"files,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Server 发布任务服务
type Server struct {
	baseDir  string
	defaults config.Config
	logger   *logging.Logger
	run      func(ctx context.Context, cfg config.Config, logger *logging.Logger, onProgress func(done, total int)) (*pipeline.Result, error)

	mu    sync.RWMutex
	tasks map[string]*PublishTask
}

// NewServer 创建服务，每个任务的输出写到 baseDir/<task id>
func NewServer(baseDir string, defaults config.Config, logger *logging.Logger) *Server {
	return &Server{
		baseDir:  baseDir,
		defaults: defaults,
		logger:   logger,
		run:      pipeline.Run,
		tasks:    make(map[string]*PublishTask),
	}
}

// Routes 注册路由
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/publish", s.handlePublish).Methods(http.MethodPost)
	r.HandleFunc("/api/task/{id}", s.handleTaskStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/ws", s.handleWebSocket)
	return r
}

func main() {
	defaults, err := config.Load(os.Getenv("USAGE_GRAPH_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.Default(defaults.Verbose)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	s := NewServer(defaults.OutputDir, defaults, logger)

	fmt.Printf("🚀 Usage Graph Publish Server\n")
	fmt.Printf("📡 服务地址: http://localhost:%s\n", port)

	log.Fatal(http.ListenAndServe(":"+port, s.Routes()))
}

// handlePublish 处理发布请求
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	taskID := uuid.NewString()
	cfg := s.requestConfig(req, taskID)
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	task := &PublishTask{
		ID:        taskID,
		Status:    StatusPending,
		Message:   "任务已创建，等待执行...",
		OutputDir: cfg.OutputDir,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.tasks[taskID] = task
	s.mu.Unlock()

	// 异步执行发布
	go s.runTask(task, cfg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"task_id": taskID,
		"status":  StatusPending,
	})
}

func (s *Server) requestConfig(req PublishRequest, taskID string) config.Config {
	cfg := s.defaults
	if req.DBType != "" {
		cfg.DBType = req.DBType
	}
	if req.Conn != "" {
		cfg.Conn = req.Conn
	}
	if req.Schema != "" {
		cfg.Schema = req.Schema
	}
	if req.Database != "" {
		cfg.Database = req.Database
	}
	if req.Cluster != "" {
		cfg.Cluster = req.Cluster
	}
	if req.UsageTable != "" {
		cfg.UsageTable = req.UsageTable
	}
	cfg.IncludeUsers = cfg.IncludeUsers || req.IncludeUsers
	cfg.OutputDir = fmt.Sprintf("%s/%s", s.baseDir, taskID)
	return cfg
}

// handleTaskStatus 查询任务状态
func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, ok := s.snapshot(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// handleWebSocket 持续推送任务状态直到结束
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task_id")
	if _, ok := s.snapshot(taskID); !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		task, ok := s.snapshot(taskID)
		if !ok {
			return
		}
		if err := conn.WriteJSON(task); err != nil {
			return
		}
		if task.Status == StatusCompleted || task.Status == StatusFailed {
			return
		}
		<-ticker.C
	}
}

// snapshot 返回任务的副本
func (s *Server) snapshot(id string) (PublishTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return PublishTask{}, false
	}
	return *task, true
}

// runTask 执行发布
func (s *Server) runTask(task *PublishTask, cfg config.Config) {
	update := func(fn func(t *PublishTask)) {
		s.mu.Lock()
		fn(task)
		task.UpdatedAt = time.Now()
		s.mu.Unlock()
	}

	update(func(t *PublishTask) {
		t.Status = StatusRunning
		t.Progress = 10
		t.Message = "正在抽取使用统计..."
	})

	res, err := s.run(context.Background(), cfg, s.logger, func(done, total int) {
		update(func(t *PublishTask) {
			t.Progress = 10 + int(float64(done)/float64(total)*85)
			t.Message = fmt.Sprintf("发布模型 %d/%d...", done, total)
		})
	})
	if err != nil {
		s.logger.Error("任务 %s 失败: %v", task.ID, err)
		update(func(t *PublishTask) {
			t.Status = StatusFailed
			t.Message = fmt.Sprintf("发布失败: %v", err)
		})
		return
	}

	update(func(t *PublishTask) {
		t.Status = StatusCompleted
		t.Progress = 100
		t.Message = "发布完成！"
		t.Stats = &res.Stats
		t.Files = res.Files
	})
}
