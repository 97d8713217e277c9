package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage_StripsKindPrefix(t *testing.T) {
	err := fmt.Errorf("%w: unsupported file type: .exe", ErrInvalidFile)
	require.Equal(t, "unsupported file type: .exe", Message(err))

	err = fmt.Errorf("%w: question cannot be empty", ErrInvalid)
	require.Equal(t, "question cannot be empty", Message(err))

	err = fmt.Errorf("%w: gemini api key not configured", ErrUnavailable)
	require.Equal(t, "gemini api key not configured", Message(err))
}

func TestMessage_PassesThroughUnwrapped(t *testing.T) {
	require.Equal(t, "plain failure", Message(fmt.Errorf("plain failure")))
	require.Equal(t, "", Message(nil))
}
