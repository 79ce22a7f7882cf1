package dispatch

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyedErr is a test error carrying its own ErrorKey.
type keyedErr struct {
	key ErrorKey
	msg string
}

func (e keyedErr) Error() string      { return e.msg }
func (e keyedErr) ErrorKey() ErrorKey { return e.key }

// respondingErr is a test error that can produce its own response.
type respondingErr struct {
	status Status
}

func (e respondingErr) Error() string { return "responding error" }

func (e respondingErr) RespondTo(*http.Request) Outcome {
	return Success(Text(e.status, "handled by error"))
}

func TestStatusResponder(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	tests := []struct {
		name        string
		status      Status
		wantForward Status
		wantSuccess Status
	}{
		{name: "client error forwards", status: StatusNotFound, wantForward: StatusNotFound},
		{name: "server error forwards", status: StatusBadGateway, wantForward: StatusBadGateway},
		{name: "ok responds", status: StatusOK, wantSuccess: StatusOK},
		{name: "reset content responds", status: StatusResetContent, wantSuccess: StatusResetContent},
		{name: "continue responds", status: StatusContinue, wantSuccess: StatusContinue},
		{name: "partial content invalid", status: StatusPartialContent, wantForward: StatusInternalServerError},
		{name: "redirect invalid", status: StatusFound, wantForward: StatusInternalServerError},
		{name: "switching protocols invalid", status: StatusSwitchingProtocols, wantForward: StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.status.RespondTo(req)
			if tt.wantForward != AnyStatus {
				assert.True(t, out.IsForward())
				assert.Equal(t, tt.wantForward, out.Status())
				assert.Nil(t, out.Error())
				return
			}

			assert.True(t, out.IsSuccess())
			require.NotNil(t, out.Response())
			assert.Equal(t, tt.wantSuccess, out.Response().Status())
			assert.Empty(t, out.Response().Body())
		})
	}
}

func TestRespond(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("response responds with itself", func(t *testing.T) {
		resp := JSON(StatusCreated, map[string]string{"id": "42"})
		out := Respond(req, resp)
		assert.True(t, out.IsSuccess())
		assert.Same(t, resp, out.Response())
	})

	t.Run("nil forwards with 404", func(t *testing.T) {
		out := Respond(req, nil)
		assert.True(t, out.IsForward())
		assert.Equal(t, StatusNotFound, out.Status())
	})

	t.Run("typed nil response forwards with 404", func(t *testing.T) {
		var resp *Response
		out := Respond(req, resp)
		assert.True(t, out.IsForward())
		assert.Equal(t, StatusNotFound, out.Status())
	})
}

func TestFromResult(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("nil error responds with value", func(t *testing.T) {
		out := FromResult(req, Text(StatusOK, "ok"), nil)
		assert.True(t, out.IsSuccess())
		assert.Equal(t, StatusOK, out.Response().Status())
	})

	t.Run("responder error responds through its capability", func(t *testing.T) {
		out := FromResult(req, nil, respondingErr{status: StatusConflict})
		assert.True(t, out.IsSuccess())
		assert.Equal(t, StatusConflict, out.Response().Status())
	})

	t.Run("keyed error fails with typed error", func(t *testing.T) {
		out := FromResult(req, nil, keyedErr{key: "store.timeout", msg: "deadline"})
		assert.True(t, out.IsFailure())
		assert.Equal(t, StatusInternalServerError, out.Status())
		require.NotNil(t, out.Error())
		assert.Equal(t, ErrorKey("store.timeout"), out.Error().Key)
	})

	t.Run("plain error fails untagged", func(t *testing.T) {
		plain := errors.New("boom")
		out := FromResult(req, nil, plain)
		assert.True(t, out.IsFailure())
		assert.Equal(t, StatusInternalServerError, out.Status())
		require.NotNil(t, out.Error())
		assert.Equal(t, NoErrorKey, out.Error().Key)
		assert.Same(t, plain, out.Error().Err)
	})
}

func TestFromOption(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("present responds", func(t *testing.T) {
		out := FromOption(req, Text(StatusOK, "found"), true)
		assert.True(t, out.IsSuccess())
	})

	t.Run("absent forwards with 404", func(t *testing.T) {
		out := FromOption(req, nil, false)
		assert.True(t, out.IsForward())
		assert.Equal(t, StatusNotFound, out.Status())
		assert.Nil(t, out.Error())
	})
}

func TestError(t *testing.T) {
	out := Error(StatusPaymentRequired)
	assert.True(t, out.IsForward())
	assert.Equal(t, StatusPaymentRequired, out.Status())
	assert.Nil(t, out.Error())
}
