package tikhub

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/zlseqx/tikhub-checkin/browser"
)

const (
	// BaseURL 签到站点地址
	BaseURL      = "https://user.tikhub.io"
	overviewPath = "/zh-hans/users/overview"

	// checkinURLMarker 签到接口 URL 的特征子串，daily_checkin 也包含
	checkinURLMarker = "checkin"

	navigationTimeout = 60 * time.Second
	// responseWaitTimeout 点击后等待签到接口响应的上限，
	// 超时后回退到页面内容判断，避免流程被挂死
	responseWaitTimeout = 8 * time.Second
)

// apiResponse 监听到的签到接口响应
type apiResponse struct {
	url    string
	status int
	body   []byte
}

// CheckinConfig 签到流程配置
type CheckinConfig struct {
	// Unattended 无人值守模式（CI/定时任务），遇到人机验证直接放弃
	Unattended bool
	// ScreenshotPath 流程结束时保存整页截图的路径，为空则不截图
	ScreenshotPath string
}

// flowPage 签到流程需要的页面能力。生产实现由 rod 页面承担，
// 拆成接口后流程本身的状态流转可以不起浏览器单独验证。
type flowPage interface {
	Navigate(ctx context.Context) error
	CurrentURL() string
	HTML() (string, error)
	DismissPopups()
	LocateButton() *rod.Element
	Click(el *rod.Element) error
	Challenge(unattended bool) ChallengeResult
	Screenshot(path string)
}

// CheckinAction 签到动作，驱动完整的签到流程
type CheckinAction struct {
	page *rod.Page
	flow flowPage
	cfg  CheckinConfig

	// respCh 容量为 1 的结果槽，只保留第一个命中的接口响应
	respCh       chan *apiResponse
	responseWait time.Duration
}

func NewCheckinAction(page *rod.Page, cfg CheckinConfig) *CheckinAction {
	return &CheckinAction{
		page:         page,
		cfg:          cfg,
		respCh:       make(chan *apiResponse, 1),
		responseWait: responseWaitTimeout,
	}
}

// Run 执行签到流程：打开概览页 → 会话校验 → 关弹窗 → 已签到检测 →
// 定位并点击签到按钮 → 人机验证检查 → 等待接口响应并归类结果。
// 任何状态下的意外异常都会在这里被兜住并转成失败结果，
// 流程永远返回一个结构化的 Outcome，不会把 panic 抛给调用方。
func (a *CheckinAction) Run(ctx context.Context) (outcome *Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("❌ 签到流程发生未处理异常: %v", r)
			outcome = &Outcome{
				Kind:    OutcomeFailure,
				Message: fmt.Sprintf("执行出错: %v", r),
			}
		}
	}()

	if a.page != nil {
		page := a.page.Context(ctx)
		a.flow = &rodFlowPage{page: page}
		// 响应监听必须在导航之前挂好，页面加载期间的请求也会经过这里
		stop := a.listenResponses(page)
		defer stop()
	}

	logrus.Info("[步骤 1] 访问用户概览页面...")
	if err := a.flow.Navigate(ctx); err != nil {
		return &Outcome{Kind: OutcomeFailure, Message: fmt.Sprintf("打开页面失败: %v", err)}
	}

	logrus.Info("[步骤 2] 检查登录状态...")
	if IsLoginRedirect(a.flow.CurrentURL()) {
		logrus.Error("❌ Cookie已失效，请更新Cookie")
		return &Outcome{
			Kind:    OutcomeSessionInvalid,
			Message: "Cookie已失效，请重新获取Cookie",
		}
	}

	logrus.Info("[步骤 3] 检查并关闭可能的弹窗...")
	a.flow.DismissPopups()

	logrus.Info("[步骤 4] 检查签到状态...")
	if html, err := a.flow.HTML(); err == nil && ContainsAlreadyDone(html) {
		logrus.Info("✅ 检测到已签到状态")
		a.screenshot()
		return &Outcome{
			Kind:    OutcomeAlreadyDone,
			Message: "今日已签到",
			Method:  "今日已签到",
		}
	}

	logrus.Info("[步骤 5] 查找签到按钮...")
	btn := a.flow.LocateButton()
	if btn == nil {
		a.screenshot()
		return &Outcome{
			Kind:    OutcomeFailure,
			Message: "未找到签到按钮，页面结构可能已变化",
		}
	}

	// 页面加载期间状态类接口可能已经占住了结果槽，
	// 点击前清空，结果只认点击之后到达的响应
	select {
	case <-a.respCh:
		logrus.Debug("丢弃点击前命中的接口响应")
	default:
	}

	logrus.Info("[步骤 6] 点击签到按钮...")
	if err := a.flow.Click(btn); err != nil {
		return &Outcome{Kind: OutcomeFailure, Message: fmt.Sprintf("点击签到按钮失败: %v", err)}
	}

	logrus.Info("[步骤 7] 检查人机验证...")
	switch a.flow.Challenge(a.cfg.Unattended) {
	case ChallengeUnresolvable:
		a.screenshot()
		return &Outcome{
			Kind:    OutcomeBlocked,
			Message: "遇到人机验证，无人值守模式下无法继续",
		}
	case ChallengeResolved:
		logrus.Info("人机验证已人工处理，继续等待签到结果")
	}

	logrus.Info("[步骤 8] 等待签到结果...")
	outcome = a.awaitOutcome(ctx)
	a.screenshot()
	return outcome
}

// listenResponses 被动监听签到接口的网络响应：只观察不拦截，
// 请求仍由页面原样发出并带着会话 Cookie。响应体要等资源加载
// 完成之后才能读取，所以命中的请求先挂账，loadingFinished 再取。
// 返回的停止函数用于结束监听。
func (a *CheckinAction) listenResponses(page *rod.Page) func() {
	listenCtx, cancel := context.WithCancel(context.Background())
	listenPage := page.Context(listenCtx)

	var mu sync.Mutex
	pending := make(map[proto.NetworkRequestID]*apiResponse)

	go listenPage.EachEvent(
		func(e *proto.NetworkResponseReceived) {
			if !strings.Contains(strings.ToLower(e.Response.URL), checkinURLMarker) {
				return
			}
			mu.Lock()
			pending[e.RequestID] = &apiResponse{
				url:    e.Response.URL,
				status: e.Response.Status,
			}
			mu.Unlock()
		},
		func(e *proto.NetworkLoadingFinished) {
			mu.Lock()
			resp, ok := pending[e.RequestID]
			delete(pending, e.RequestID)
			mu.Unlock()
			if !ok {
				return
			}

			body, err := proto.NetworkGetResponseBody{RequestID: e.RequestID}.Call(listenPage)
			if err != nil {
				logrus.WithError(err).Warn("读取签到接口响应体失败")
				return
			}
			resp.body = []byte(body.Body)
			if body.Base64Encoded {
				if decoded, err := base64.StdEncoding.DecodeString(body.Body); err == nil {
					resp.body = decoded
				}
			}

			logrus.WithFields(logrus.Fields{
				"url":    resp.url,
				"status": resp.status,
			}).Info("📡 捕获到签到接口响应")

			select {
			case a.respCh <- resp:
			default:
			}
		},
	)()

	return cancel
}

// awaitOutcome 在限定时间内等待监听到的接口响应并归类；
// 超时或被取消时回退到页面内容判断。
func (a *CheckinAction) awaitOutcome(ctx context.Context) *Outcome {
	select {
	case resp := <-a.respCh:
		return ClassifyResponse(resp.status, resp.body)
	case <-time.After(a.responseWait):
		logrus.Warn("等待签到接口响应超时，回退到页面内容判断")
	case <-ctx.Done():
		logrus.Warn("签到流程被取消，回退到页面内容判断")
	}

	if html, err := a.flow.HTML(); err == nil && ContainsAlreadyDone(html) {
		return &Outcome{
			Kind:    OutcomeAlreadyDone,
			Message: "今日已签到",
			Method:  "今日已签到",
		}
	}

	return &Outcome{
		Kind:    OutcomeFailure,
		Message: "签到失败: 未收到签到接口响应",
	}
}

func (a *CheckinAction) screenshot() {
	if a.cfg.ScreenshotPath == "" {
		return
	}
	a.flow.Screenshot(a.cfg.ScreenshotPath)
}

// rodFlowPage flowPage 的 rod 实现
type rodFlowPage struct {
	page *rod.Page
}

func (p *rodFlowPage) Navigate(ctx context.Context) error {
	navCtx, cancel := context.WithTimeout(ctx, navigationTimeout)
	defer cancel()

	navPage := p.page.Context(navCtx)
	if err := navPage.Navigate(BaseURL + overviewPath); err != nil {
		return err
	}
	if err := navPage.WaitLoad(); err != nil {
		logrus.WithError(err).Warn("等待页面加载超时，继续尝试")
	}
	time.Sleep(2 * time.Second)
	return nil
}

func (p *rodFlowPage) CurrentURL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *rodFlowPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodFlowPage) DismissPopups() {
	ClosePopups(p.page)
}

func (p *rodFlowPage) LocateButton() *rod.Element {
	return LocateCheckinButton(p.page)
}

func (p *rodFlowPage) Click(el *rod.Element) error {
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodFlowPage) Challenge(unattended bool) ChallengeResult {
	return CheckChallenge(p.page, unattended)
}

func (p *rodFlowPage) Screenshot(path string) {
	if err := browser.SaveScreenshot(p.page, path); err != nil {
		logrus.WithError(err).Warn("保存截图失败")
	}
}

// IsLoginRedirect 判断当前地址是否被重定向到了登录页
func IsLoginRedirect(pageURL string) bool {
	return strings.Contains(strings.ToLower(pageURL), "login")
}
