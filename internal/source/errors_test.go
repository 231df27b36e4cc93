package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/pagedview/internal/metrics"
)

func TestFetchError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{"response", ResponseError(503, nil), "response error: status 503"},
		{"response with cause", ResponseError(500, errors.New("boom")), "response error: status 500: boom"},
		{"network", NetworkError(errors.New("dial tcp: refused")), "network error: dial tcp: refused"},
		{"malformed", MalformedError(200, errors.New("bad json")), "malformed response: bad json"},
		{"bare", &FetchError{Kind: KindNetwork}, "network error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestFetchError_Is(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("wrapped: %w", NetworkError(cause))

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrResponse)
	assert.False(t, IsSoft(err))
	assert.True(t, IsSoft(MalformedError(200, nil)))

	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestClassifyTransport(t *testing.T) {
	timeout := classifyTransport(fmt.Errorf("get: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, timeout, ErrTimeout)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)
	assert.Equal(t, KindNetwork, timeout.Kind)

	canceled := classifyTransport(context.Canceled)
	assert.NotErrorIs(t, canceled, ErrTimeout)
	assert.ErrorIs(t, canceled, context.Canceled)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeSuccess, Outcome(nil))
	assert.Equal(t, metrics.OutcomeCanceled, Outcome(NetworkError(context.Canceled)))
	assert.Equal(t, metrics.OutcomeNetwork, Outcome(NetworkError(errors.New("x"))))
	assert.Equal(t, metrics.OutcomeResponse, Outcome(ResponseError(500, nil)))
	assert.Equal(t, metrics.OutcomeMalformed, Outcome(MalformedError(200, nil)))
	assert.Equal(t, metrics.OutcomeNetwork, Outcome(errors.New("unclassified")))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))

	fe := ResponseError(500, nil)
	assert.Same(t, fe, Classify(fe))

	assert.ErrorIs(t, Classify(context.DeadlineExceeded), ErrTimeout)
	assert.ErrorIs(t, Classify(context.Canceled), ErrNetwork)

	plain := errors.New("plain")
	assert.Equal(t, plain, Classify(plain))
}
