package notify

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/zlseqx/tikhub-checkin/record"
	"github.com/zlseqx/tikhub-checkin/tikhub"
)

// weekdayNames time.Weekday 从周日开始
var weekdayNames = []string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// mottos 随机激励语
var mottos = []string{
	"打卡成功！向着梦想飞奔吧~",
	"坚持签到，未来可期！",
	"今日已签到，继续保持！",
	"打卡完成，享受TikHub服务！",
	"签到成功，美好的一天开始了！",
	"打卡成功，每天进步一点点！",
	"签到打卡，从未间断！",
	"又是美好的一天，签到成功！",
}

// BuildMessage 组装 Telegram 通知消息（Markdown 格式）
func BuildMessage(outcome *tikhub.Outcome, stats record.Stats, now time.Time, quote string) string {
	dateStr := now.Format("2006年01月02日")
	weekday := weekdayNames[int(now.Weekday())]
	timeStr := now.Format("15:04:05")

	var status, icon, headerIcon string
	switch {
	case outcome.Kind == tikhub.OutcomeAlreadyDone:
		status = "今日已签到"
		icon = "✓"
		headerIcon = "🔄"
	case outcome.OK():
		status = outcome.Message
		icon = "✅"
		headerIcon = "✨"
	default:
		status = "签到失败"
		icon = "❌"
		headerIcon = "⚠️"
	}

	method := outcome.Method
	if method == "" {
		method = "Cookie签到"
	}

	pointsText := ""
	if outcome.Reward != "" {
		pointsText = fmt.Sprintf("💎 本次获得: +%s 积分\n", outcome.Reward)
	}

	monthName := now.Format("01月")
	statsLines := []string{
		fmt.Sprintf("  · 总计已签到: %d 天", stats.TotalDays),
		fmt.Sprintf("  · %s已签到: %d 天", monthName, stats.MonthDays),
	}
	if stats.IsFirstToday {
		statsLines = append(statsLines, "  · 今日首次签到 🆕")
	}

	motto := mottos[rand.Intn(len(mottos))]

	return fmt.Sprintf(`%s *TikHub每日签到* %s

📅 日期: %s (%s)
🕒 时间: %s
👤 账号: Cookie用户
%s 状态: %s
🍪 登录方式: Cookie
🍪 签到方式: %s
%s
📊 签到统计:
%s

🚀 %s

📝 每日一言: %s`,
		headerIcon, headerIcon,
		dateStr, weekday,
		timeStr,
		icon, status,
		method,
		pointsText,
		strings.Join(statsLines, "\n"),
		motto,
		quote,
	)
}
