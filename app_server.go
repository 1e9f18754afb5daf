package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AppServer HTTP 服务模式：把签到封装成接口，供外部调度系统触发。
// 并发到达的签到请求会在浏览器管理器处排队，逐个执行。
type AppServer struct {
	service *CheckinService
	engine  *gin.Engine
}

func NewAppServer(service *CheckinService) *AppServer {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.Default()

	s := &AppServer{
		service: service,
		engine:  engine,
	}

	engine.GET("/health", s.handleHealth)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/checkin", s.handleCheckin)
		v1.GET("/statistics", s.handleStatistics)
		v1.GET("/runs", s.handleRuns)
	}

	return s
}

// Start 启动 HTTP 服务（阻塞）
func (s *AppServer) Start(port string) error {
	logrus.Infof("HTTP 服务启动，监听 %s", port)
	return s.engine.Run(port)
}

func (s *AppServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCheckin 触发一次签到并同步返回结果
func (s *AppServer) handleCheckin(c *gin.Context) {
	logrus.Info("HTTP: 收到签到请求")

	outcome := s.service.Run(c.Request.Context())
	s.service.Notify(c.Request.Context(), outcome)

	c.JSON(http.StatusOK, gin.H{
		"success": outcome.OK(),
		"outcome": outcome,
	})
}

func (s *AppServer) handleStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Statistics())
}

// handleRuns 返回最近的运行历史，需要配置了 runlog 路径
func (s *AppServer) handleRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := s.service.RecentRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": entries})
}
