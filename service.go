package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zlseqx/tikhub-checkin/browser"
	"github.com/zlseqx/tikhub-checkin/configs"
	"github.com/zlseqx/tikhub-checkin/notify"
	"github.com/zlseqx/tikhub-checkin/record"
	"github.com/zlseqx/tikhub-checkin/storage/runlog"
	"github.com/zlseqx/tikhub-checkin/tikhub"
)

// screenshotFileName 有人值守时保存的最终截图
const screenshotFileName = "tikhub_final.png"

// CheckinService 把浏览器管理、签到流程、签到记录和运行历史
// 串成一次完整的签到服务，供 CLI / HTTP / MCP 三种入口复用。
type CheckinService struct {
	cfg configs.Config
}

func NewCheckinService(cfg configs.Config) *CheckinService {
	return &CheckinService{cfg: cfg}
}

// Run 执行一次完整签到。浏览器页面通过全局管理器获取，
// 无论流程怎么结束都会释放。签到成功或已签到时更新签到记录。
func (s *CheckinService) Run(ctx context.Context) *tikhub.Outcome {
	page, release, err := browser.GetGlobalManager().NewPageWithRelease()
	if err != nil {
		logrus.WithError(err).Error("获取浏览器页面失败")
		return &tikhub.Outcome{
			Kind:    tikhub.OutcomeFailure,
			Message: fmt.Sprintf("启动浏览器失败: %v", err),
		}
	}
	defer release()

	screenshotPath := ""
	if !s.cfg.Unattended {
		screenshotPath = screenshotFileName
	}

	action := tikhub.NewCheckinAction(page, tikhub.CheckinConfig{
		Unattended:     s.cfg.Unattended,
		ScreenshotPath: screenshotPath,
	})
	outcome := action.Run(ctx)

	now := record.BeijingNow()
	if outcome.OK() {
		record.NewLedger(s.cfg.RecordPath).Update(now)
	}
	s.appendRunLog(now, outcome)

	return outcome
}

// RecentRuns 返回最近 limit 条运行历史。未配置 runlog 路径时返回空列表。
func (s *CheckinService) RecentRuns(limit int) ([]runlog.Entry, error) {
	if s.cfg.RunLogPath == "" {
		return nil, nil
	}

	store, err := runlog.NewStore(s.cfg.RunLogPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Recent(limit)
}

// Statistics 返回当前的签到统计快照
func (s *CheckinService) Statistics() record.Stats {
	return record.NewLedger(s.cfg.RecordPath).Statistics(record.BeijingNow())
}

// Notify 发送 Telegram 通知。未配置通知参数时静默跳过，
// 发送失败也不影响签到结果。
func (s *CheckinService) Notify(ctx context.Context, outcome *tikhub.Outcome) {
	tg := notify.NewTelegram(s.cfg.TGBotToken, s.cfg.TGChatID)
	if !tg.Enabled() {
		return
	}

	logrus.Info("📱 正在发送 Telegram 通知...")
	quote := notify.FetchDailyQuote(ctx)
	msg := notify.BuildMessage(outcome, s.Statistics(), record.BeijingNow(), quote)
	tg.Send(msg)
}

// appendRunLog 把本次运行追加到 sqlite 运行历史。历史记录是排查用的
// 附属功能，写入失败只记日志。
func (s *CheckinService) appendRunLog(now time.Time, outcome *tikhub.Outcome) {
	if s.cfg.RunLogPath == "" {
		return
	}

	store, err := runlog.NewStore(s.cfg.RunLogPath)
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
