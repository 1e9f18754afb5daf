package tikhub

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
)

// stubFlow 离线的页面桩，记录流程实际执行了哪些步骤
type stubFlow struct {
	url       string
	html      string
	button    *rod.Element
	challenge ChallengeResult
	onClick   func()

	located bool
	clicked bool
}

func (f *stubFlow) Navigate(ctx context.Context) error { return nil }
func (f *stubFlow) CurrentURL() string                 { return f.url }
func (f *stubFlow) HTML() (string, error)              { return f.html, nil }
func (f *stubFlow) DismissPopups()                     {}

func (f *stubFlow) LocateButton() *rod.Element {
	f.located = true
	return f.button
}

func (f *stubFlow) Click(el *rod.Element) error {
	f.clicked = true
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

func (f *stubFlow) Challenge(unattended bool) ChallengeResult { return f.challenge }
func (f *stubFlow) Screenshot(path string)                    {}

func newTestAction(flow flowPage, cfg CheckinConfig) *CheckinAction {
	return &CheckinAction{
		flow:         flow,
		cfg:          cfg,
		respCh:       make(chan *apiResponse, 1),
		responseWait: 20 * time.Millisecond,
	}
}

func TestRun_已签到时短路(t *testing.T) {
	flow := &stubFlow{html: `<div class="status">今日已签到</div>`}
	a := newTestAction(flow, CheckinConfig{})

	outcome := a.Run(context.Background())

	assert.Equal(t, OutcomeAlreadyDone, outcome.Kind)
	// 页面已经显示签到完成，不应该再去找签到按钮
	assert.False(t, flow.located)
	assert.False(t, flow.clicked)
}

func TestRun_Cookie失效(t *testing.T) {
	flow := &stubFlow{url: "https://user.tikhub.io/login?next=/users/overview"}
	a := newTestAction(flow, CheckinConfig{})

	outcome := a.Run(context.Background())

	assert.Equal(t, OutcomeSessionInvalid, outcome.Kind)
	assert.False(t, flow.located)
}

func TestRun_未找到签到按钮(t *testing.T) {
	flow := &stubFlow{html: "<div>overview</div>", button: nil}
	a := newTestAction(flow, CheckinConfig{})

	outcome := a.Run(context.Background())

	assert.Equal(t, OutcomeFailure, outcome.Kind)
	assert.True(t, flow.located)
	assert.False(t, flow.clicked)
}

func TestRun_按点击后的接口响应归类(t *testing.T) {
	flow := &stubFlow{html: "<div>overview</div>", button: &rod.Element{}}
	a := newTestAction(flow, CheckinConfig{})

	// 页面加载期间命中的状态类响应先占住了结果槽，
	// 结果只能认点击之后到达的那一个
	a.respCh <- &apiResponse{status: 200, body: []byte(`{"code":1,"msg":"尚未签到"}`)}
	flow.onClick = func() {
		a.respCh <- &apiResponse{status: 200, body: []byte(`{"status":"success","points":50}`)}
	}

	outcome := a.Run(context.Background())

	assert.True(t, flow.clicked)
	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "50", outcome.Reward)
}

func TestRun_无响应时回退页面判断(t *testing.T) {
	flow := &stubFlow{html: "<div>overview</div>", button: &rod.Element{}}
	// 点击后接口始终没有响应，但页面内容变成了已签到
	flow.onClick = func() {
		flow.html = `<div class="status">已签到</div>`
	}
	a := newTestAction(flow, CheckinConfig{})

	outcome := a.Run(context.Background())

	assert.True(t, flow.clicked)
	assert.Equal(t, OutcomeAlreadyDone, outcome.Kind)
}

func TestRun_无响应且页面无标志时失败(t *testing.T) {
	flow := &stubFlow{html: "<div>overview</div>", button: &rod.Element{}}
	a := newTestAction(flow, CheckinConfig{})

	outcome := a.Run(context.Background())

	assert.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Contains(t, outcome.Message, "未收到签到接口响应")
}

func TestRun_人机验证拦截(t *testing.T) {
	flow := &stubFlow{
		html:      "<div>overview</div>",
		button:    &rod.Element{},
		challenge: ChallengeUnresolvable,
	}
	a := newTestAction(flow, CheckinConfig{Unattended: true})

	outcome := a.Run(context.Background())

	assert.Equal(t, OutcomeBlocked, outcome.Kind)
}

func TestRun_异常转为结构化失败(t *testing.T) {
	// flow 为 nil 时第一步就会触发空指针异常，必须被兜住
	a := newTestAction(nil, CheckinConfig{})

	outcome := a.Run(context.Background())

	assert.Equal(t, OutcomeFailure, outcome.Kind)
	assert.Contains(t, outcome.Message, "执行出错")
}
