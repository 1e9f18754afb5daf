package tikhub

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
)

// ChallengeResult 人机验证检查的结论
type ChallengeResult int

const (
	// ChallengeNone 没有发现人机验证，正常继续
	ChallengeNone ChallengeResult = iota
	// ChallengeResolved 发现验证但已人工处理完
	ChallengeResolved
	// ChallengeUnresolvable 发现验证且无法继续（无人值守）
	ChallengeUnresolvable
)

// 确定的验证组件标志（iframe 嵌入或内联容器）
var challengeWidgetSelectors = []string{
	`iframe[src*="turnstile"]`,
	`iframe[src*="recaptcha"]`,
	`iframe[src*="hcaptcha"]`,
	`.cf-turnstile`,
	`.g-recaptcha`,
	`.h-captcha`,
}

// 模糊的文字提示，页面提到验证但没有具体组件
var challengeHintMarkers = []string{
	"人机验证",
	"安全验证",
	"verify you are human",
	"security check",
}

const (
	challengeProbeTimeout = 1 * time.Second
	// challengeGraceWindow 有人值守时给人工点验证码留的时间
	challengeGraceWindow = 30 * time.Second
	challengeRecheckWait = 3 * time.Second
)

// CheckChallenge 检查页面是否被人机验证拦住。
// 发现确定的验证组件时：无人值守直接放弃（自动破解第三方验证码
// 不在本工具的能力范围内），有人值守则等一个宽限窗口假定人工处理。
// 只有模糊的文字提示时，稍候重新确认一次，仍没有具体组件就当没有。
func CheckChallenge(page *rod.Page, unattended bool) ChallengeResult {
	if hasChallengeWidget(page) {
		return handleWidget(unattended)
	}

	if hasChallengeHint(page) {
		logrus.Info("页面出现验证相关提示，稍候重新确认...")
		time.Sleep(challengeRecheckWait)
		if hasChallengeWidget(page) {
			return handleWidget(unattended)
		}
		logrus.Info("未发现具体的验证组件，按无验证继续")
	}

	return ChallengeNone
}

func handleWidget(unattended bool) ChallengeResult {
	if unattended {
		logrus.Error("❌ 检测到人机验证，无人值守模式下无法处理")
		return ChallengeUnresolvable
	}

	logrus.Infof("检测到人机验证，等待人工处理（%v）...", challengeGraceWindow)
	time.Sleep(challengeGraceWindow)
	return ChallengeResolved
}

func hasChallengeWidget(page *rod.Page) bool {
	for _, sel := range challengeWidgetSelectors {
		el, err := page.Timeout(challengeProbeTimeout).Element(sel)
		if err != nil {
			continue
		}
		if visible, _ := el.Visible(); visible {
			logrus.Warnf("发现验证组件: %s", sel)
			return true
		}
	}
	return false
}

func hasChallengeHint(page *rod.Page) bool {
	html, err := page.HTML()
	if err != nil {
		return false
	}
	lower := strings.ToLower(html)
	for _, marker := range challengeHintMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
