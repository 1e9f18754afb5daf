package browser

import (
	"os"

	"github.com/go-rod/rod"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SaveScreenshot 截取整页并保存到 path。
// 协议层异常时有可能返回非图片内容，落盘前先校验字节确实是图片。
func SaveScreenshot(page *rod.Page, path string) error {
	data, err := page.Screenshot(true, nil)
	if err != nil {
		return errors.Wrap(err, "截图失败")
	}

	if !filetype.IsImage(data) {
		return errors.New("截图内容不是有效的图片")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "保存截图失败")
	}

	logrus.WithField("path", path).Info("📸 已保存截图")
	return nil
}
