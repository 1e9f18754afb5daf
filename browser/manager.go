package browser

import (
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// Manager 浏览器实例管理器，确保同一时间只有一个签到任务在使用浏览器。
// HTTP / MCP 服务模式下可能并发收到签到请求，签到流程本身是单线程的，
// 后来的请求在这里排队等待。
type Manager struct {
	mu       sync.Mutex
	cond     *sync.Cond
	browser  *Browser
	headless bool
	binPath  string
	cookies  []*proto.NetworkCookieParam
	inUse    bool
}

var (
	globalManager     *Manager
	globalManagerOnce sync.Once
)

// GetGlobalManager 获取全局浏览器管理器（单例）
func GetGlobalManager() *Manager {
	globalManagerOnce.Do(func() {
		m := &Manager{}
		m.cond = sync.NewCond(&m.mu)
		globalManager = m
	})
	return globalManager
}

// SetConfig 设置浏览器配置和要注入的 Cookie
func (m *Manager) SetConfig(headless bool, binPath string, cookies []*proto.NetworkCookieParam) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headless = headless
	m.binPath = binPath
	m.cookies = cookies
}

// AcquireBrowser 获取浏览器实例（会阻塞直到浏览器可用）。
// 返回浏览器实例和 release 函数，使用完毕后必须调用 release 释放。
func (m *Manager) AcquireBrowser() (*Browser, func(), error) {
	m.mu.Lock()

	for m.inUse {
		logrus.Info("⏳ 浏览器正在使用中，等待释放...")
		m.cond.Wait()
		logrus.Info("✓ 浏览器已释放，继续执行")
	}

	if m.browser == nil {
		logrus.Info("创建新的浏览器实例...")
		b, err := NewBrowser(m.headless, WithBinPath(m.binPath))
		if err != nil {
			m.mu.Unlock()
			return nil, nil, err
		}
		if len(m.cookies) > 0 {
			if err := b.SetCookies(m.cookies); err != nil {
				b.Close()
				m.mu.Unlock()
				return nil, nil, err
			}
		}
		m.browser = b
		logrus.Info("✓ 浏览器实例创建成功")
	}

	m.inUse = true
	browser := m.browser

	release := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.inUse = false
		logrus.Debug("浏览器实例已释放，可供其他操作使用")
		m.cond.Signal()
	}

	m.mu.Unlock()
	return browser, release, nil
}

// CloseBrowser 关闭并清理浏览器实例
func (m *Manager) CloseBrowser() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		logrus.Info("关闭浏览器实例...")
		m.browser.Close()
		m.browser = nil
		m.inUse = false
	}
}

// NewPageWithRelease 获取一个配置好的新页面，并返回页面和释放函数
func (m *Manager) NewPageWithRelease() (*rod.Page, func(), error) {
	browser, releaseBrowser, err := m.AcquireBrowser()
	if err != nil {
		return nil, nil, err
	}

	page, err := browser.NewPage()
	if err != nil {
		releaseBrowser()
		return nil, nil, err
	}
	ConfigurePage(page)

	release := func() {
		if page != nil {
			_ = page.Close()
		}
		releaseBrowser()
	}

	return page, release, nil
}
