package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// dailyQuotesAPI 每日一言接口
const dailyQuotesAPI = "https://v1.hitokoto.cn/?encode=json&c=k"

const quoteFetchTimeout = 5 * time.Second

// fallbackQuotes 接口不可用时的本地备用格言
var fallbackQuotes = []string{
	"不要等待，时机永远不会恰到好处。 —— 拿破仑·希尔",
	"合理安排时间，就等于节约时间。 —— 培根",
	"行动是治愈恐惧的良药。 —— 戴尔·卡耐基",
	"成功是一段路程，而非终点。 —— 本·斯威特兰",
}

type hitokotoResponse struct {
	Hitokoto string `json:"hitokoto"`
	FromWho  string `json:"from_who"`
}

// FetchDailyQuote 获取每日一言，任何失败都回退到本地备用列表，永不报错
func FetchDailyQuote(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, quoteFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dailyQuotesAPI, nil)
	if err != nil {
		return randomFallbackQuote()
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logrus.Warnf("⚠️ 获取每日一言失败: %v，使用备用格言", err)
		return randomFallbackQuote()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.Warnf("⚠️ 每日一言接口返回状态码 %d，使用备用格言", resp.StatusCode)
		return randomFallbackQuote()
	}

	var data hitokotoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logrus.Warnf("⚠️ 解析每日一言失败: %v，使用备用格言", err)
		return randomFallbackQuote()
	}

	author := data.FromWho
	if author == "" {
		author = "佚名"
	}
	return fmt.Sprintf("%s —— %s", data.Hitokoto, author)
}

func randomFallbackQuote() string {
	return fallbackQuotes[rand.Intn(len(fallbackQuotes))]
}
