package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"
)

type testError struct {
	suite.Suite
}

func (t *testError) TestCode() {
	e := NewError("t", 3, "showme")
	t.Equal("t-3", e.Code())
	t.Equal("t-3; showme", e.Error())
}

func (t *testError) TestNewf() {
	kind := NewError("t", 1, "showme")
	other := NewError("t", 2, "findme")

	err := kind.Newf("id=%d", 10)
	t.Equal("t-1; showme; id=10", err.Error())
	t.True(xerrors.Is(err, kind))
	t.False(xerrors.Is(err, other))
}

func (t *testError) TestNewWraps() {
	kind := NewError("t", 1, "showme")
	cause := xerrors.New("killme")

	err := kind.New(cause)
	t.True(xerrors.Is(err, kind))
	t.True(xerrors.Is(err, cause))
	t.Contains(err.Error(), "killme")

	wrapped := xerrors.Errorf("outer: %w", err)
	t.True(xerrors.Is(wrapped, kind))
}

func (t *testError) TestUnder() {
	parent := NewError("t", 1, "validation")
	child := NewError("t", 2, "inactive").Under(parent)

	err := child.Newf("poll=%d", 3)
	t.True(xerrors.Is(err, child))
	t.True(xerrors.Is(err, parent))
	t.False(xerrors.Is(parent.Newf("a"), child))
}

func (t *testError) TestMarshalJSON() {
	err := NewError("t", 1, "showme")

	b, e := json.Marshal(err)
	t.NoError(e)
	t.Equal(`{"code":"t-1","message":"showme"}`, string(b))
}

func TestError(t *testing.T) {
	suite.Run(t, new(testError))
}
