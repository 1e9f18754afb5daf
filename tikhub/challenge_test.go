package tikhub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleWidget_无人值守直接放弃(t *testing.T) {
	assert.Equal(t, ChallengeUnresolvable, handleWidget(true))
}
