package tikhub

import "strings"

// OutcomeKind 签到流程的终态分类
type OutcomeKind int

const (
	// OutcomeSuccess 签到成功
	OutcomeSuccess OutcomeKind = iota
	// OutcomeAlreadyDone 今日已签到
	OutcomeAlreadyDone
	// OutcomeFailure 签到失败（HTTP 错误、响应无法识别、按钮缺失等）
	OutcomeFailure
	// OutcomeSessionInvalid Cookie 失效，被重定向到登录页
	OutcomeSessionInvalid
	// OutcomeBlocked 被人机验证拦截且无法继续
	OutcomeBlocked
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAlreadyDone:
		return "already_done"
	case OutcomeFailure:
		return "failure"
	case OutcomeSessionInvalid:
		return "session_invalid"
	case OutcomeBlocked:
		return "blocked"
	}
	return "unknown"
}

// Outcome 一次签到流程的结构化结果。整个流程只产生一个 Outcome，
// 网络响应和页面内容两条判定路径不会各自往上报。
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
	// Reward 本次获得的积分，签到成功时才可能有值
	Reward string `json:"reward,omitempty"`
	// Method 签到方式的展示文案（Cookie签到 / 今日已签到）
	Method string `json:"method,omitempty"`
}

// OK 是否为成功类结果（成功或已签到）
func (o *Outcome) OK() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeAlreadyDone
}

// alreadyDoneMarkers 「今日已签到」的标志词。页面扫描和接口消息判定
// 共用同一份列表，中英文各一组，英文按小写做包含匹配。
var alreadyDoneMarkers = []string{
	"已签到",
	"already check",
	"already sign",
}

// ContainsAlreadyDone 判断文本中是否出现「已签到」标志（大小写不敏感）
func ContainsAlreadyDone(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range alreadyDoneMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
