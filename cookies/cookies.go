package cookies

import (
	"strings"

	"github.com/go-rod/rod/lib/proto"
)

const (
	// CookieDomain 签到站点的 Cookie 作用域
	CookieDomain = ".tikhub.io"
	// CookiePath Cookie 的根路径
	CookiePath = "/"
)

// ParseCookieString 将浏览器复制出来的 Cookie 字符串解析为 rod 可注入的格式。
// 格式为 "name1=value1; name2=value2; ..."，没有 "=" 的片段直接跳过，
// 解析永远不会失败：空串或乱码输入返回空列表，由后续的登录校验兜底。
func ParseCookieString(raw string) []*proto.NetworkCookieParam {
	var params []*proto.NetworkCookieParam

	for _, item := range strings.Split(raw, "; ") {
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}

		params = append(params, &proto.NetworkCookieParam{
			Name:   name,
			Value:  value,
			Domain: CookieDomain,
			Path:   CookiePath,
		})
	}

	return params
}
