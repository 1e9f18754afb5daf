package tikhub

import (
	"strings"
	"testing"
)

func TestEligibleButtonText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "中文签到按钮", text: "签到", want: true},
		{name: "每日签到", text: "每日签到", want: true},
		{name: "带空白的文案", text: "  签到  ", want: true},
		{name: "英文按钮", text: "Check in", want: true},
		{name: "英文带连字符", text: "Check-In", want: true},
		{name: "空文案", text: "", want: false},
		{name: "纯空白", text: "   ", want: false},
		{name: "不含关键词", text: "退出登录", want: false},
		{name: "超长文案排除", text: "完成每日签到即可获得积分奖励，连续签到奖励更多", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EligibleButtonText(tt.text); got != tt.want {
				t.Errorf("EligibleButtonText(%q) = %v, 期望 %v", tt.text, got, tt.want)
			}
		})
	}
}

// 文案匹配策略里第一个命中正则的候选不一定合格：一整块带「签到」
// 字样的宣传文案命中后会被通用合格条件淘汰，策略要继续看后面的候选。
func TestCandidateMatches(t *testing.T) {
	zhMatch := func(text string) bool { return strings.Contains(text, "签到") }

	if candidateMatches("完成每日签到即可获得积分奖励，连续签到奖励更多", zhMatch) {
		t.Error("超长宣传文案不应被当成签到按钮")
	}
	if !candidateMatches("每日签到", zhMatch) {
		t.Error("合格的按钮文案应该命中")
	}
	if candidateMatches("退出登录", zhMatch) {
		t.Error("不含关键词的文案不应命中")
	}
}

func TestEnCheckinPattern(t *testing.T) {
	for _, s := range []string{"Check in", "CHECK-IN", "checkin", "Daily Check In"} {
		if !enCheckinPattern.MatchString(s) {
			t.Errorf("%q 应该命中英文签到文案", s)
		}
	}
	for _, s := range []string{"checklist", "check out"} {
		if enCheckinPattern.MatchString(s) {
			t.Errorf("%q 不应命中英文签到文案", s)
		}
	}
}

// 策略顺序就是置信度顺序，高优先级策略命中时后面的不会再执行。
// 这里锁定顺序，避免后续改动悄悄打乱回退链。
func TestCheckinStrategies_顺序(t *testing.T) {
	expected := []string{
		"站点专用选择器",
		"中文文案匹配",
		"英文文案匹配",
		"可点击元素扫描",
		"XPath 兜底",
	}

	strategies := checkinStrategies()
	if len(strategies) != len(expected) {
		t.Fatalf("策略数量 = %d, 期望 %d", len(strategies), len(expected))
	}
	for i, s := range strategies {
		if s.name != expected[i] {
			t.Errorf("第 %d 个策略 = %s, 期望 %s", i+1, s.name, expected[i])
		}
		if s.find == nil {
			t.Errorf("策略 %s 没有绑定查找函数", s.name)
		}
	}
}
