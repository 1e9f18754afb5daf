package configs

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	headless bool
	binPath  string
)

// InitHeadless 初始化无头模式开关
func InitHeadless(v bool) {
	headless = v
}

// IsHeadless 是否无头模式
func IsHeadless() bool {
	return headless
}

// SetBinPath 设置浏览器二进制文件路径
func SetBinPath(p string) {
	binPath = p
}

// GetBinPath 获取浏览器二进制文件路径
func GetBinPath() string {
	return binPath
}

// Config 签到运行配置。优先级：环境变量 > checkin.yaml > 默认值。
type Config struct {
	// Cookie 登录后的 Cookie 字符串
	Cookie string `yaml:"cookie"`
	// TGBotToken / TGChatID Telegram 通知配置（可选）
	TGBotToken string `yaml:"tg_bot_token"`
	TGChatID   string `yaml:"tg_chat_id"`
	// RecordPath 签到记录文件路径，为空时使用程序同目录下的默认文件
	RecordPath string `yaml:"record_path"`
	// RunLogPath 运行历史 sqlite 文件路径，为空时不记录
	RunLogPath string `yaml:"runlog_path"`
	// AutoRun 定时任务模式，启动前加入 1-60 秒随机延迟
	AutoRun bool `yaml:"-"`
	// Unattended 无人值守（CI/定时任务）环境，遇到人机验证直接放弃
	Unattended bool `yaml:"-"`
}

const configFileName = "checkin.yaml"

// Load 加载运行配置：先尝试 .env，再读可选的 checkin.yaml，最后用环境变量覆盖
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("未找到 .env 文件，直接使用环境变量")
	}

	var cfg Config
	if data, err := os.ReadFile(configFileName); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.WithError(err).Warnf("解析 %s 失败，忽略该文件", configFileName)
			cfg = Config{}
		}
	}

	if v := strings.TrimSpace(os.Getenv("TIKHUB_COOKIE")); v != "" {
		cfg.Cookie = v
	}
	if v := strings.TrimSpace(os.Getenv("TG_BOT_TOKEN")); v != "" {
		cfg.TGBotToken = v
	}
	if v := strings.TrimSpace(os.Getenv("TG_CHAT_ID")); v != "" {
		cfg.TGChatID = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKIN_RECORD_PATH")); v != "" {
		cfg.RecordPath = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKIN_RUNLOG_PATH")); v != "" {
		cfg.RunLogPath = v
	}

	cfg.AutoRun = isTruthy(os.Getenv("IS_AUTO_RUN"))
	// GitHub Actions 等 CI 环境视为无人值守
	cfg.Unattended = os.Getenv("GITHUB_ACTIONS") == "true" || isTruthy(os.Getenv("CI"))

	return cfg
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
