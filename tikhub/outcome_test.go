package tikhub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsAlreadyDone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "中文标志", text: "今天您已签到，明天再来", want: true},
		{name: "页面里的英文标志", text: "You have Already Checked in today", want: true},
		{name: "英文 already signed", text: "already signed in", want: true},
		{name: "无标志", text: "每日签到可获得积分", want: false},
		{name: "空文本", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsAlreadyDone(tt.text))
		})
	}
}

func TestIsLoginRedirect(t *testing.T) {
	assert.True(t, IsLoginRedirect("https://user.tikhub.io/zh-hans/users/Login?next=/overview"))
	assert.True(t, IsLoginRedirect("https://user.tikhub.io/login"))
	assert.False(t, IsLoginRedirect("https://user.tikhub.io/zh-hans/users/overview"))
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "already_done", OutcomeAlreadyDone.String())
	assert.Equal(t, "failure", OutcomeFailure.String())
	assert.Equal(t, "session_invalid", OutcomeSessionInvalid.String())
	assert.Equal(t, "blocked", OutcomeBlocked.String())
}
