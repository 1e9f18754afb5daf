package browser

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// 浏览器身份与视口，保持与真实桌面 Chrome 一致，降低被风控识别的概率
const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"

	viewportWidth  = 1920
	viewportHeight = 1080
)

type browserConfig struct {
	binPath string
}

type Option func(*browserConfig)

// WithBinPath 指定浏览器二进制文件路径
func WithBinPath(binPath string) Option {
	return func(c *browserConfig) {
		c.binPath = binPath
	}
}

// Browser 封装 rod 浏览器实例及其启动器，Close 时一并清理
type Browser struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// NewBrowser 启动浏览器。带上反自动化检测相关的启动参数，
// 这些参数与站点风控直接相关，不要随意删减。
func NewBrowser(headless bool, options ...Option) (*Browser, error) {
	cfg := &browserConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	l := launcher.New().
		Headless(headless).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu")

	if cfg.binPath != "" {
		l = l.Bin(cfg.binPath)
	}

	wsURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(err, "启动浏览器失败")
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, errors.Wrap(err, "连接浏览器失败")
	}

	logrus.WithField("headless", headless).Debug("浏览器启动成功")
	return &Browser{browser: b, lnch: l}, nil
}

// SetCookies 向浏览器注入 Cookie，注入后新建的页面都会携带
func (b *Browser) SetCookies(params []*proto.NetworkCookieParam) error {
	if err := b.browser.SetCookies(params); err != nil {
		return errors.Wrap(err, "注入 Cookie 失败")
	}
	return nil
}

// NewPage 创建一个带 stealth 补丁的新页面
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, errors.Wrap(err, "创建页面失败")
	}
	return page, nil
}

// Close 关闭浏览器并清理启动器产生的临时文件
func (b *Browser) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
		b.browser = nil
	}
	if b.lnch != nil {
		b.lnch.Cleanup()
		b.lnch = nil
	}
}

// ConfigurePage 配置页面的视口和 User-Agent。
// stealth 库默认会把 UA 伪装成 Mac Chrome，这里统一覆盖为 Windows，
// 同时注入脚本覆盖 navigator 属性，防止页面脚本检测到不一致。
func ConfigurePage(page *rod.Page) {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		logrus.Warnf("设置视口失败: %v", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: userAgent,
		Platform:  "Windows",
	}); err != nil {
		logrus.Warnf("设置 User-Agent 失败: %v", err)
	}

	_, err := page.EvalOnNewDocument(`
		Object.defineProperty(navigator, 'platform', {
			get: () => 'Win32'
		});
		Object.defineProperty(navigator, 'userAgent', {
			get: () => '` + userAgent + `'
		});
		Object.defineProperty(navigator, 'vendor', {
			get: () => 'Google Inc.'
		});
	`)
	if err != nil {
		logrus.Warnf("注入 User-Agent 脚本失败: %v", err)
	}
}
