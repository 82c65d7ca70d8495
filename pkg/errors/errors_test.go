package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbastos-dev/tuck/pkg/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrGroupNotFound, "no such group")

	assert.Equal(t, "[GROUP_NOT_FOUND] no such group", err.Error())
	assert.True(t, errors.IsErrorCode(err, errors.ErrGroupNotFound))
	assert.False(t, errors.IsErrorCode(err, errors.ErrSymlinkExists))
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrFileNotFound, "no such file: %s", ".vimrc")
	assert.Contains(t, err.Error(), "no such file: .vimrc")
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := errors.Wrap(cause, errors.ErrSymlinkCreate, "failed to symlink")

	assert.Contains(t, err.Error(), "failed to symlink")
	assert.Contains(t, err.Error(), "permission denied")
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkCreate))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrUnknown, "nothing"))
}

func TestGetErrorCode(t *testing.T) {
	err := errors.New(errors.ErrHookFailed, "hook failed")
	assert.Equal(t, errors.ErrHookFailed, errors.GetErrorCode(err))

	plain := stderrors.New("plain")
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(plain))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrSymlinkExists, "target occupied").
		WithDetail("target", "/home/user/.vimrc")

	require.NotNil(t, err.Details)
	assert.Equal(t, "/home/user/.vimrc", err.Details["target"])
}

func TestIsErrorCodeThroughWrapping(t *testing.T) {
	inner := errors.New(errors.ErrNoDotfilesDir, "missing")
	outer := errors.Wrap(inner, errors.ErrConfigLoad, "while loading")

	assert.True(t, errors.IsErrorCode(outer, errors.ErrConfigLoad))
	assert.True(t, errors.IsErrorCode(outer, errors.ErrNoDotfilesDir))
}
