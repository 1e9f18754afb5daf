package cookies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCookieString(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected [][2]string // name, value
	}{
		{
			name:     "正常的多个 Cookie",
			raw:      "session=abc123; token=xyz",
			expected: [][2]string{{"session", "abc123"}, {"token", "xyz"}},
		},
		{
			name:     "包含非法片段时跳过",
			raw:      "a=1; bad; b=2",
			expected: [][2]string{{"a", "1"}, {"b", "2"}},
		},
		{
			name:     "值里带等号时只按第一个等号切分",
			raw:      "token=ABc9=MCVT=",
			expected: [][2]string{{"token", "ABc9=MCVT="}},
		},
		{
			name:     "没有等号的输入返回空",
			raw:      "garbage without pairs",
			expected: nil,
		},
		{
			name:     "空字符串返回空",
			raw:      "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ParseCookieString(tt.raw)
			require.Len(t, params, len(tt.expected))

			for i, exp := range tt.expected {
				assert.Equal(t, exp[0], params[i].Name)
				assert.Equal(t, exp[1], params[i].Value)
				assert.Equal(t, CookieDomain, params[i].Domain)
				assert.Equal(t, CookiePath, params[i].Path)
			}
		})
	}
}
