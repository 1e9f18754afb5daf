package tikhub

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
)

const (
	// maxButtonTextLen 签到按钮的文案都很短，超过这个长度的元素直接排除，
	// 避免兜底扫描误选到包含「签到」字样的整块文案区域
	maxButtonTextLen = 20

	locatorProbeTimeout = 2 * time.Second
)

// checkinKeywords 签到按钮文案关键词，英文按小写匹配
var checkinKeywords = []string{"签到", "check in", "check-in", "checkin"}

// 站点专用的结构化选择器，精确度最高
var structuralSelectors = []string{
	"#checkin-button",
	".checkin-btn",
	"button[class*='checkin']",
	"button[data-action='checkin']",
}

// locatorStrategy 一种定位策略：命中返回元素，未命中返回 nil。
// 策略的排列顺序就是置信度顺序，前面的策略命中即停止。
type locatorStrategy struct {
	name string
	find func(page *rod.Page) (*rod.Element, error)
}

func checkinStrategies() []locatorStrategy {
	return []locatorStrategy{
		{name: "站点专用选择器", find: findByStructuralSelectors},
		{name: "中文文案匹配", find: findByTextZH},
		{name: "英文文案匹配", find: findByTextEN},
		{name: "可点击元素扫描", find: findByClickableSweep},
		{name: "XPath 兜底", find: findByXPath},
	}
}

// LocateCheckinButton 按置信度顺序逐个尝试定位策略，返回第一个可用的
// 签到按钮。单个策略抛出的错误会被吞掉继续下一个；全部落空返回 nil，
// 这是正常可上报的情况，不是异常——页面结构可能已经变了。
func LocateCheckinButton(page *rod.Page) *rod.Element {
	for _, s := range checkinStrategies() {
		el, err := s.find(page)
		if err != nil {
			logrus.Debugf("策略「%s」执行失败: %v", s.name, err)
			continue
		}
		if el == nil {
			logrus.Debugf("策略「%s」未命中", s.name)
			continue
		}
		logrus.Infof("✅ 找到签到按钮（%s）", s.name)
		return el
	}

	logrus.Warn("⚠️ 所有策略都未找到签到按钮")
	return nil
}

func findByStructuralSelectors(page *rod.Page) (*rod.Element, error) {
	for _, sel := range structuralSelectors {
		el, err := page.Timeout(locatorProbeTimeout).Element(sel)
		if err != nil {
			continue
		}
		if visible, _ := el.Visible(); visible {
			return el, nil
		}
	}
	return nil, nil
}

// enCheckinPattern 英文签到文案，check in / check-in / checkin 都算
var enCheckinPattern = regexp.MustCompile(`(?i)check[ -]?in`)

func findByTextZH(page *rod.Page) (*rod.Element, error) {
	// 「每日签到」也包含「签到」，包含匹配同时覆盖
	return findByTextMatch(page, func(text string) bool {
		return strings.Contains(text, "签到")
	})
}

func findByTextEN(page *rod.Page) (*rod.Element, error) {
	return findByTextMatch(page, enCheckinPattern.MatchString)
}

// findByTextMatch 遍历所有按钮和链接逐个检查文案。第一个命中的
// 候选不合格时继续看后面的，不能让一整块带「签到」字样的宣传文案
// 堵死整个策略。
func findByTextMatch(page *rod.Page, match func(string) bool) (*rod.Element, error) {
	els, err := page.Elements("button, a")
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		text, err := el.Text()
		if err != nil || !candidateMatches(text, match) {
			continue
		}
		return el, nil
	}
	return nil, nil
}

// candidateMatches 文案要同时命中策略自己的匹配条件和按钮文案的
// 通用合格条件（非空、长度受限、含签到关键词）
func candidateMatches(text string, match func(string) bool) bool {
	return match(text) && EligibleButtonText(text)
}

// findByClickableSweep 扫描所有可点击元素，按可见性、文案长度和
// 关键词过滤。这是结构化选择器全部失效后的宽泛回退。
func findByClickableSweep(page *rod.Page) (*rod.Element, error) {
	els, err := page.Elements(`button, a, [role="button"]`)
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		if eligibleElement(el) {
			return el, nil
		}
	}
	return nil, nil
}

func findByXPath(page *rod.Page) (*rod.Element, error) {
	el, err := page.Timeout(locatorProbeTimeout).
		ElementX(`//button[contains(., "签到")] | //a[contains(., "签到")]`)
	if err != nil {
		return nil, nil
	}
	if visible, _ := el.Visible(); visible {
		return el, nil
	}
	return nil, nil
}

// eligibleElement 候选元素合格条件：可见 + 文案合格
func eligibleElement(el *rod.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	text, err := el.Text()
	if err != nil {
		return false
	}
	return EligibleButtonText(text)
}

// EligibleButtonText 判断文案是否像签到按钮：去掉首尾空白后非空、
// 不超过 maxButtonTextLen 个字符、包含签到关键词
func EligibleButtonText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxButtonTextLen {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range checkinKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
