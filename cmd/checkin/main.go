package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"github.com/zlseqx/tikhub-checkin/browser"
	"github.com/zlseqx/tikhub-checkin/configs"
	"github.com/zlseqx/tikhub-checkin/cookies"
	"github.com/zlseqx/tikhub-checkin/notify"
	"github.com/zlseqx/tikhub-checkin/record"
	"github.com/zlseqx/tikhub-checkin/storage/runlog"
	"github.com/zlseqx/tikhub-checkin/tikhub"
)

// 这个 CLI 程序用于直接从命令行跑一次签到，带终端交互展示，
// 不依赖常驻服务。适合手动执行和调试选择器。
func main() {
	var (
		headless bool
		binPath  string
	)
	flag.BoolVar(&headless, "headless", false, "是否无头模式，默认 false（有界面，便于人工处理验证码）")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径（可选，不传则使用 ROD_BROWSER_BIN 环境变量）")
	flag.Parse()

	if binPath == "" {
		binPath = os.Getenv("ROD_BROWSER_BIN")
	}

	cfg := configs.Load()
	if cfg.Cookie == "" {
		if c, err := cookies.NewLoadCookie(cookies.GetCookieFilePath()).Load(); err == nil {
			cfg.Cookie = c
		}
	}
	if cfg.Cookie == "" {
		pterm.Error.Println("未设置 TIKHUB_COOKIE，请先在环境变量、.env 或 cookie.txt 中配置 Cookie")
		os.Exit(1)
	}

	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)

	pterm.DefaultHeader.Println("TikHub 自动签到")

	spinner, _ := pterm.DefaultSpinner.Start("正在启动浏览器...")

	b, err := browser.NewBrowser(headless, browser.WithBinPath(binPath))
	if err != nil {
		spinner.Fail(fmt.Sprintf("启动浏览器失败: %v", err))
		os.Exit(1)
	}
	defer b.Close()

	if err := b.SetCookies(cookies.ParseCookieString(cfg.Cookie)); err != nil {
		spinner.Fail(fmt.Sprintf("注入 Cookie 失败: %v", err))
		os.Exit(1)
	}

	page, err := b.NewPage()
	if err != nil {
		spinner.Fail(fmt.Sprintf("创建页面失败: %v", err))
		os.Exit(1)
	}
	defer func() { _ = page.Close() }()
	browser.ConfigurePage(page)

	spinner.UpdateText("正在执行签到流程...")

	ctx := context.Background()
	action := tikhub.NewCheckinAction(page, tikhub.CheckinConfig{
		Unattended:     cfg.Unattended,
		ScreenshotPath: "tikhub_final.png",
	})
	outcome := action.Run(ctx)

	if outcome.OK() {
		spinner.Success("签到流程完成")
	} else {
		spinner.Fail("签到流程失败")
	}

	now := record.BeijingNow()
	ledger := record.NewLedger(cfg.RecordPath)
	if outcome.OK() {
		ledger.Update(now)
	}
	appendRunLog(cfg, now, outcome)

	stats := ledger.Statistics(now)
	printResultBox(outcome, stats)

	if tg := notify.NewTelegram(cfg.TGBotToken, cfg.TGChatID); tg.Enabled() {
		tg.Send(notify.BuildMessage(outcome, stats, now, notify.FetchDailyQuote(ctx)))
	}

	if !outcome.OK() {
		os.Exit(1)
	}
}

func printResultBox(outcome *tikhub.Outcome, stats record.Stats) {
	status := pterm.Red("❌ 失败")
	if outcome.OK() {
		status = pterm.Green("✅ 成功")
	}

	content := fmt.Sprintf("状态: %s\n信息: %s", status, outcome.Message)
	if outcome.Reward != "" {
		content += fmt.Sprintf("\n积分: +%s", outcome.Reward)
	}
	content += fmt.Sprintf("\n统计: 总计 %d 天，本月 %d 天", stats.TotalDays, stats.MonthDays)

	pterm.DefaultBox.WithTitle("签到结果").Println(content)
}

func appendRunLog(cfg configs.Config, now time.Time, outcome *tikhub.Outcome) {
	if cfg.RunLogPath == "" {
		return
	}
	store, err := runlog.NewStore(cfg.RunLogPath)
	if err != nil {
		logrus.WithError(err).Warn("打开运行历史数据库失败")
		return
	}
	defer store.Close()

	if err := store.Append(runlog.Entry{
		RunAt:     now,
		CivilDate: now.Format("2006-01-02"),
		Outcome:   outcome.Kind.String(),
		Message:   outcome.Message,
		Reward:    outcome.Reward,
	}); err != nil {
		logrus.WithError(err).Warn("写入运行历史失败")
	}
}
