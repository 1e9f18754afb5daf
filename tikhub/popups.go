package tikhub

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// 弹窗关闭按钮选择器，按实际出现频率排序
var popupCloseSelectors = []string{
	`button[aria-label="Close"]`,
	`button[class*="close"]`,
	`.modal-close`,
}

// 通过按钮文案匹配的关闭方式，CSS 选择器匹配不到时再试
var popupCloseTexts = []string{"不再提醒", "关闭"}

const (
	popupProbeTimeout = 2 * time.Second
	popupSettleDelay  = 1 * time.Second
)

// ClosePopups 检查并关闭页面上可能出现的弹窗（公告、活动之类），
// 返回是否关闭了弹窗。没有弹窗是常态，这里永远不报错：
// 所有选择器都没命中时按一次 ESC 兜底。
func ClosePopups(page *rod.Page) bool {
	for _, sel := range popupCloseSelectors {
		if clickIfVisible(page, sel) {
			logrus.Infof("✅ 已关闭弹窗: %s", sel)
			time.Sleep(popupSettleDelay)
			return true
		}
	}

	for _, text := range popupCloseTexts {
		btn, err := page.Timeout(popupProbeTimeout).ElementR("button", text)
		if err != nil {
			continue
		}
		if visible, _ := btn.Visible(); !visible {
			continue
		}
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
			logrus.Debugf("点击弹窗按钮失败: %v", err)
			continue
		}
		logrus.Infof("✅ 已关闭弹窗: 按钮「%s」", text)
		time.Sleep(popupSettleDelay)
		return true
	}

	// 兜底：ESC 键能关掉大部分模态弹窗
	if err := page.Keyboard.Press(input.Escape); err != nil {
		logrus.Debugf("发送 ESC 失败: %v", err)
	}
	time.Sleep(500 * time.Millisecond)
	return false
}

// clickIfVisible 等待选择器命中且元素可见时点击，任何失败都只返回 false
func clickIfVisible(page *rod.Page, sel string) bool {
	el, err := page.Timeout(popupProbeTimeout).Element(sel)
	if err != nil {
		return false
	}
	if visible, _ := el.Visible(); !visible {
		return false
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		logrus.Debugf("点击 %s 失败: %v", sel, err)
		return false
	}
	return true
}
