package cookies

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// GetCookieFilePath 返回默认的 Cookie 文件路径（程序同目录下的 cookie.txt）。
// 本地运行时可以把 Cookie 字符串保存到文件，避免每次导出环境变量。
func GetCookieFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "cookie.txt"
	}
	return filepath.Join(filepath.Dir(exe), "cookie.txt")
}

// LoadCookie 从文件加载 Cookie 字符串
type LoadCookie struct {
	path string
}

func NewLoadCookie(path string) *LoadCookie {
	return &LoadCookie{path: path}
}

// Load 读取文件内容并去掉首尾空白。文件不存在时返回错误，由调用方降级处理。
func (l *LoadCookie) Load() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", errors.Wrapf(err, "读取 Cookie 文件失败: %s", l.path)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save 将 Cookie 字符串写回文件，权限 0600，防止凭证被其他用户读取。
func (l *LoadCookie) Save(cookie string) error {
	return os.WriteFile(l.path, []byte(cookie), 0o600)
}
