package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGitLabCommandRequiresTokenAndProject(t *testing.T) {
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"gitlab", "--url", "https://gitlab.com"})

	err := root.Execute()
	require.Error(t, err)
}

func TestGitLabCommandRejectsLimitOutOfRange(t *testing.T) {
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"gitlab", "--token", "t", "--url", "https://gitlab.com", "--project", "group/project", "--limit", "0"})

	err := root.Execute()
	require.Error(t, err)
}
