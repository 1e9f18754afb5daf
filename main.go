package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/zlseqx/tikhub-checkin/browser"
	"github.com/zlseqx/tikhub-checkin/configs"
	"github.com/zlseqx/tikhub-checkin/cookies"
	"github.com/zlseqx/tikhub-checkin/record"
	"github.com/zlseqx/tikhub-checkin/tikhub"
)

func main() {
	var (
		headless  bool
		binPath   string // 浏览器二进制文件路径
		port      string
		serveMode bool // 常驻 HTTP 服务模式
		stdioMode bool // STDIO 模式（用于 MCP 客户端）
	)
	flag.BoolVar(&headless, "headless", true, "是否无头模式")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径")
	flag.StringVar(&port, "port", ":18070", "HTTP 服务端口")
	flag.BoolVar(&serveMode, "serve", false, "以 HTTP 服务模式常驻运行")
	flag.BoolVar(&stdioMode, "stdio", false, "使用 STDIO 模式（用于 MCP 客户端）")
	flag.Parse()

	if len(binPath) == 0 {
		binPath = os.Getenv("ROD_BROWSER_BIN")
	}

	cfg := configs.Load()

	// 无人值守环境下强制无头，避免在 CI 里起带界面的浏览器
	if cfg.Unattended {
		headless = true
	}

	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)

	// 环境变量和配置文件都没有 Cookie 时，回退到程序同目录的 cookie.txt
	if cfg.Cookie == "" {
		if c, err := cookies.NewLoadCookie(cookies.GetCookieFilePath()).Load(); err == nil {
			cfg.Cookie = c
		}
	}

	// 仍然没有 Cookie 时不碰浏览器，直接给出获取指引并退出
	if cfg.Cookie == "" {
		printCookieHelp()
		os.Exit(1)
	}
	logrus.Infof("📝 使用 Cookie 签到，Cookie 长度: %d", len(cfg.Cookie))

	browser.GetGlobalManager().SetConfig(headless, binPath, cookies.ParseCookieString(cfg.Cookie))

	service := NewCheckinService(cfg)

	// os.Exit 不会执行 defer，浏览器在各分支里显式关闭
	switch {
	case stdioMode:
		logrus.Info("启动 STDIO 模式 MCP 服务器")
		err := StartSTDIO(service)
		browser.GetGlobalManager().CloseBrowser()
		if err != nil {
			logrus.Fatalf("failed to run STDIO server: %v", err)
		}
	case serveMode:
		err := NewAppServer(service).Start(port)
		browser.GetGlobalManager().CloseBrowser()
		if err != nil {
			logrus.Fatalf("failed to run server: %v", err)
		}
	default:
		code := runOnce(service, cfg)
		browser.GetGlobalManager().CloseBrowser()
		os.Exit(code)
	}
}

// runOnce 执行一次签到并返回进程退出码：成功类结果为 0，其余为 1
func runOnce(service *CheckinService, cfg configs.Config) int {
	// 定时任务模式下加入随机延迟，避免所有人在整点同时打到服务器
	if cfg.AutoRun {
		delay := time.Duration(rand.Intn(60)+1) * time.Second
		logrus.Infof("🕒 自动运行模式，随机延迟 %v 后开始签到...", delay)
		logrus.Infof("⏰ 预计开始时间: %s", record.BeijingNow().Add(delay).Format("2006-01-02 15:04:05"))
		time.Sleep(delay)
		logrus.Info("✅ 延迟结束，开始执行签到")
	} else {
		logrus.Info("🖐️ 手动运行模式，立即开始签到")
	}

	ctx := context.Background()
	outcome := service.Run(ctx)

	printSummary(outcome, service.Statistics())
	service.Notify(ctx, outcome)

	if !outcome.OK() {
		return 1
	}
	return 0
}

// printSummary 在控制台打印结果摘要。中文字符宽度为 2，
// 边框宽度按显示宽度计算，避免中英文混排时对不齐。
func printSummary(outcome *tikhub.Outcome, stats record.Stats) {
	status := "❌ 失败"
	if outcome.OK() {
		status = "✅ 成功"
	}

	lines := []string{
		"TikHub 签到结果",
		fmt.Sprintf("状态: %s", status),
		fmt.Sprintf("信息: %s", outcome.Message),
	}
	if outcome.Reward != "" {
		lines = append(lines, fmt.Sprintf("获得积分: %s", outcome.Reward))
	}
	lines = append(lines, fmt.Sprintf("签到统计: 总计 %d 天，本月 %d 天", stats.TotalDays, stats.MonthDays))

	width := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}

	border := strings.Repeat("=", width+2)
	fmt.Println(border)
	for _, line := range lines {
		pad := width - runewidth.StringWidth(line)
		fmt.Printf(" %s%s\n", line, strings.Repeat(" ", pad))
	}
	fmt.Println(border)
}

func printCookieHelp() {
	fmt.Println("❌ 错误: 未设置 Cookie")
	fmt.Println()
	fmt.Println("请配置 TIKHUB_COOKIE：")
	fmt.Println("  在环境变量或 .env / checkin.yaml 中设置：")
	fmt.Println("  - TIKHUB_COOKIE: 你的 Cookie 字符串")
	fmt.Println("  也可以把 Cookie 保存到程序同目录的 cookie.txt")
	fmt.Println()
	fmt.Println("如何获取 Cookie：")
	fmt.Println("  1. 在浏览器中登录 TikHub")
	fmt.Println("  2. 打开开发者工具（F12）")
	fmt.Println("  3. 切换到 Network 标签")
	fmt.Println("  4. 刷新页面")
	fmt.Println("  5. 找到任意请求，查看 Request Headers")
	fmt.Println("  6. 复制 Cookie 字段的完整值")
	fmt.Println()
	fmt.Println("可选：Telegram 通知")
	fmt.Println("  - TG_BOT_TOKEN: Telegram Bot Token")
	fmt.Println("  - TG_CHAT_ID: Telegram Chat ID")
}
