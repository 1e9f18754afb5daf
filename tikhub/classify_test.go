package tikhub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		kind     OutcomeKind
		message  string
		reward   string
	}{
		{
			name:    "status 字段为 success",
			status:  200,
			body:    `{"status":"success","points":50,"message":"ok"}`,
			kind:    OutcomeSuccess,
			message: "ok",
			reward:  "50",
		},
		{
			name:    "code 为 0 且带 msg",
			status:  200,
			body:    `{"code":0,"msg":"签到成功","credits":10}`,
			kind:    OutcomeSuccess,
			message: "签到成功",
			reward:  "10",
		},
		{
			name:    "success 布尔字段",
			status:  200,
			body:    `{"success":true}`,
			kind:    OutcomeSuccess,
			message: "签到成功",
		},
		{
			name:    "points 优先于 credits",
			status:  200,
			body:    `{"status":"success","points":50,"credits":99}`,
			kind:    OutcomeSuccess,
			message: "签到成功",
			reward:  "50",
		},
		{
			name:    "message 优先于 msg",
			status:  200,
			body:    `{"status":"success","message":"first","msg":"second"}`,
			kind:    OutcomeSuccess,
			message: "first",
		},
		{
			name:    "错误消息里带已签到时重新归类",
			status:  200,
			body:    `{"code":1,"msg":"您已签到"}`,
			kind:    OutcomeAlreadyDone,
			message: "您已签到",
		},
		{
			name:    "英文已签到消息",
			status:  200,
			body:    `{"status":"error","message":"Already checked in today"}`,
			kind:    OutcomeAlreadyDone,
			message: "Already checked in today",
		},
		{
			name:    "显式错误",
			status:  200,
			body:    `{"status":"error","error":"internal"}`,
			kind:    OutcomeFailure,
			message: "internal",
		},
		{
			name:    "错误但没有任何消息字段",
			status:  200,
			body:    `{"code":500}`,
			kind:    OutcomeFailure,
			message: "未知错误",
		},
		{
			name:    "HTTP 非 200 时不看响应体",
			status:  500,
			body:    `{"status":"success","points":50}`,
			kind:    OutcomeFailure,
			message: "签到失败: HTTP 500",
		},
		{
			name:    "响应体不是 JSON",
			status:  200,
			body:    `<html>oops</html>`,
			kind:    OutcomeFailure,
			message: "签到失败: 响应内容无法解析",
		},
		{
			name:    "无法识别的响应格式",
			status:  200,
			body:    `{"foo":"bar","count":3}`,
			kind:    OutcomeFailure,
			message: "签到失败: 响应格式无法识别",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ClassifyResponse(tt.status, []byte(tt.body))
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.message, out.Message)
			assert.Equal(t, tt.reward, out.Reward)
		})
	}
}

func TestClassifyResponse_成功类结果(t *testing.T) {
	out := ClassifyResponse(200, []byte(`{"status":"success"}`))
	assert.True(t, out.OK())

	out = ClassifyResponse(200, []byte(`{"code":1,"msg":"您已签到"}`))
	assert.True(t, out.OK())

	out = ClassifyResponse(500, nil)
	assert.False(t, out.OK())
}
