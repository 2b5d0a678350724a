package domain

import (
	"errors"
	"testing"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
)

func TestRequestReplyingTo(t *testing.T) {

	assert := assert.New(t)

	pid := actor.NewPID("nonhost", "coordinator")
	req := GetBridgeStateRequest{ActorRequestMixIn: RequestReplyingTo(pid)}
	assert.Equal(pid, (*actor.PID)(req.ReplyTo()))

	assert.Nil(GetWebLogsRequest{}.ReplyTo())
}

func TestResponseWithError(t *testing.T) {

	assert := assert.New(t)

	ok := GetWebLogsResponse{ActorResponseMixIn: ResponseWithError(nil)}
	assert.False(ok.HasResponseError())

	failed := GetWebLogsResponse{ActorResponseMixIn: ResponseWithError(errors.New("timeout"))}
	assert.True(failed.HasResponseError())
	assert.EqualError(failed.GetResponseError(), "timeout")
}
