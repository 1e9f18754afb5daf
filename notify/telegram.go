package notify

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const telegramSendTimeout = 10 * time.Second

// Telegram 签到结果的 Telegram 通知器。
// 通知是尽力而为的附属功能：发送失败只记日志，不影响签到流程的退出状态。
type Telegram struct {
	botToken string
	chatID   string
	client   *http.Client
	// apiBase 仅测试时覆盖
	apiBase string
}

func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: telegramSendTimeout},
		apiBase:  "https://api.telegram.org",
	}
}

// Enabled 是否配置了完整的通知参数
func (t *Telegram) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// Send 发送一条 Markdown 格式的通知消息
func (t *Telegram) Send(message string) {
	if !t.Enabled() {
		logrus.Warn("⚠️ Telegram Bot Token 或 Chat ID 为空，跳过通知")
		return
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	form := url.Values{
		"chat_id":    {t.chatID},
		"text":       {message},
		"parse_mode": {"Markdown"},
	}

	resp, err := t.client.PostForm(endpoint, form)
	if err != nil {
		logrus.WithError(err).Error("❌ 发送 Telegram 通知出错")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logrus.Errorf("❌ Telegram 通知发送失败: %d - %s", resp.StatusCode, body)
		return
	}

	logrus.Info("✅ Telegram 通知发送成功")
}
