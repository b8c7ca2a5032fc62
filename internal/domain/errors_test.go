package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := NewRemoteQueryError(QueryFailed, "TABLE_NOT_FOUND: line 1:15")
	wrapped := fmt.Errorf("fetching window: %w", base)

	assert.Equal(t, KindRemoteQuery, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindRemoteQuery))
	assert.Contains(t, wrapped.Error(), "TABLE_NOT_FOUND: line 1:15")
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestConfigurationErrorListsEverything(t *testing.T) {
	err := NewConfigurationError("AWS_REGION", "SUBJECT_ID")
	assert.Equal(t, []string{"AWS_REGION", "SUBJECT_ID"}, err.Missing)
	assert.Contains(t, err.Error(), "AWS_REGION, SUBJECT_ID")
}

func TestTimeoutErrorDistinctFromRemote(t *testing.T) {
	err := NewTimeoutError("exec-9", QueryRunning, 60*time.Second)
	assert.Equal(t, KindTimeout, err.Kind)
	assert.False(t, IsKind(err, KindRemoteQuery))
	assert.Contains(t, err.Error(), "1m0s")
}

func TestRemoteQueryErrorDefaultsReason(t *testing.T) {
	err := NewRemoteQueryError(QueryCancelled, "")
	assert.Equal(t, "query cancelled without a reason", err.Detail)
}
