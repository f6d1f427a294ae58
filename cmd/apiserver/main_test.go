package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/amoylab/assocmanager/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old }()

	f()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestRootCmd_Version(t *testing.T) {
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	rootCmd.SetArgs([]string{"version"})
	out := captureOutput(func() { require.NoError(t, rootCmd.Execute()) })
	assert.Equal(t, "apiserver version "+version.Get()+"\n", out)
}

func TestRootCmd_Help(t *testing.T) {
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	rootCmd.SetArgs([]string{"--help"})
	out := captureOutput(func() { require.NoError(t, rootCmd.Execute()) })
	for _, sub := range []string{"init-db", "init-platform", "version", "--conf"} {
		assert.Contains(t, out, sub)
	}
}
