package tikhub

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ClassifyResponse 根据拦截到的签到接口响应推导签到结果。
// 后端在不同版本里用过好几种响应格式，这里按置信度逐层匹配，
// 识别不了的格式降级为带通用消息的失败，而不是报错中断。
func ClassifyResponse(status int, body []byte) *Outcome {
	if status != 200 {
		return &Outcome{
			Kind:    OutcomeFailure,
			Message: fmt.Sprintf("签到失败: HTTP %d", status),
		}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		logrus.WithError(err).Warn("解析签到响应失败")
		return &Outcome{Kind: OutcomeFailure, Message: "签到失败: 响应内容无法解析"}
	}

	if isSuccessPayload(payload) {
		out := &Outcome{
			Kind:    OutcomeSuccess,
			Message: "签到成功",
			Method:  "Cookie签到",
		}
		if reward := pickField(payload, "points", "credits"); reward != "" {
			out.Reward = reward
			logrus.Infof("   🎁 获得积分: %s", reward)
		}
		if msg := pickField(payload, "message", "msg"); msg != "" {
			out.Message = msg
			logrus.Infof("   💬 消息: %s", msg)
		}
		return out
	}

	if isErrorPayload(payload) {
		msg := pickField(payload, "message", "msg", "error")
		if msg == "" {
			msg = "未知错误"
		}
		// 后端把「已签到」也当错误返回，这里重新归类
		if ContainsAlreadyDone(msg) {
			return &Outcome{Kind: OutcomeAlreadyDone, Message: msg, Method: "今日已签到"}
		}
		return &Outcome{Kind: OutcomeFailure, Message: msg}
	}

	// 响应格式无法识别，逐项打印内容便于排查
	logrus.Warn("签到响应格式无法识别:")
	for key, value := range payload {
		logrus.Warnf("   • %s: %v", key, value)
	}
	return &Outcome{Kind: OutcomeFailure, Message: "签到失败: 响应格式无法识别"}
}

// isSuccessPayload 成功的三种表示：status 为 success、code 为 0、success 为 true
func isSuccessPayload(payload map[string]interface{}) bool {
	if s, ok := payload["status"].(string); ok && s == "success" {
		return true
	}
	if c, ok := payload["code"].(float64); ok && c == 0 {
		return true
	}
	if b, ok := payload["success"].(bool); ok && b {
		return true
	}
	return false
}

// isErrorPayload 显式的错误表示：status 为 error 或 code 非零
func isErrorPayload(payload map[string]interface{}) bool {
	if s, ok := payload["status"].(string); ok && s == "error" {
		return true
	}
	if c, ok := payload["code"].(float64); ok && c != 0 {
		return true
	}
	return false
}

// pickField 按给定顺序取第一个存在的字段，格式化为字符串。
// JSON 数字统一是 float64，整数值去掉小数部分展示。
func pickField(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		value, ok := payload[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}
