package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2024-02-29"))

	for _, bad := range []string{"2024-13-40", "2023-02-29", "2024-1-01", "20240101", "", "2024-01-01'; DROP"} {
		err := ValidateDate(bad)
		require.Error(t, err, bad)
		assert.True(t, IsKind(err, KindValidation), bad)
	}
}
