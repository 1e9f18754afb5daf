package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchDailyQuote_接口不可用时使用备用格言(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // 直接取消，请求必然失败

	quote := FetchDailyQuote(ctx)

	assert.Contains(t, fallbackQuotes, quote)
}
