package ctest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseIDString(t *testing.T) {
	assert.Equal(t, "", CaseID(nil).String())
	assert.Equal(t, "a/b", CaseID{"a", "b"}.String())
}

func TestCaseIDPlusDoesNotShareBackingArray(t *testing.T) {
	base := CaseID{"a"}
	id1 := base.Plus("b")
	id2 := base.Plus("c")
	assert.Equal(t, CaseID{"a", "b"}, id1)
	assert.Equal(t, CaseID{"a", "c"}, id2)
}

func TestCaseFailureError(t *testing.T) {
	f := CaseFailure{ID: CaseID{"a", "b"}, Err: errors.New("sorry")}
	assert.Equal(t, "[a/b]: sorry", f.Error())
}
