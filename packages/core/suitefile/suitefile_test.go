package suitefile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/suiterun/packages/core/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutSuite = `suite: checkout
description: checkout flow
tests:
  - name: login
    priority: 1
    steps:
      - sleep: 1ms
      - log: logged in
  - name: pay
    priority: 2
    depends: [login]
    steps:
      - flaky: 2
  - name: refund
    steps:
      - fail: refunds are not implemented
`

func writeSuite(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func attemptT(attempt int) *suite.T {
	return suite.NewT(context.Background(), "test", attempt, nil)
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(checkoutSuite), "checkout.suite.yaml")
	require.NoError(t, err)

	assert.Equal(t, "checkout", f.Suite)
	assert.Equal(t, "checkout flow", f.Description)
	assert.Equal(t, "checkout.suite.yaml", f.Path)
	require.Len(t, f.Tests, 3)

	assert.Equal(t, "login", f.Tests[0].Name)
	require.NotNil(t, f.Tests[0].Priority)
	assert.Equal(t, 1, *f.Tests[0].Priority)
	assert.Equal(t, []string{"login"}, f.Tests[1].Depends)
	assert.Nil(t, f.Tests[2].Priority)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		issue   string
	}{
		{"empty file", "", "empty"},
		{"malformed yaml", "suite: [unclosed", "yaml"},
		{"missing suite", "tests: []", "suite"},
		{"unknown field", "suite: x\ntests: []\nretries: 5", "retries"},
		{"test without name", "suite: x\ntests:\n  - priority: 1", "name"},
		{"string priority", "suite: x\ntests:\n  - name: a\n    priority: high", "priority"},
		{"bad sleep", "suite: x\ntests:\n  - name: a\n    steps:\n      - sleep: soon", "sleep"},
		{"two actions in a step", "suite: x\ntests:\n  - name: a\n    steps:\n      - log: hi\n        fail: no", "steps"},
		{"negative flaky", "suite: x\ntests:\n  - name: a\n    steps:\n      - flaky: -1", "flaky"},
		{"duplicate test", "suite: x\ntests:\n  - name: a\n  - name: a", "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "bad.suite.yaml")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSuiteFile)
			assert.Contains(t, err.Error(), tt.issue)
			assert.Contains(t, err.Error(), "bad.suite.yaml")
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]byte(checkoutSuite), ""))

	err := Validate([]byte("suite: 12\ntests: {}"), "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Issues), 2)
	assert.Contains(t, verr.Error(), "suite file")
}

func TestDescriptors(t *testing.T) {
	f, err := Parse([]byte(checkoutSuite), "")
	require.NoError(t, err)

	descs, err := f.Descriptors()
	require.NoError(t, err)
	require.Len(t, descs, 3)

	assert.Equal(t, "login", descs[0].Name)
	assert.Equal(t, 1, descs[0].PriorityValue())
	assert.Equal(t, []string{"login"}, descs[1].Dependencies)
	assert.False(t, descs[2].HasPriority())

	t.Run("sleep and log pass", func(t *testing.T) {
		assert.NoError(t, descs[0].Body(attemptT(1)))
	})

	t.Run("flaky fails the first attempts", func(t *testing.T) {
		assert.Error(t, descs[1].Body(attemptT(1)))
		assert.Error(t, descs[1].Body(attemptT(2)))
		assert.NoError(t, descs[1].Body(attemptT(3)))
	})

	t.Run("fail step", func(t *testing.T) {
		err := descs[2].Body(attemptT(1))
		var failure *suite.Failure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, "refunds are not implemented", failure.Message)
	})

	t.Run("fresh descriptors each call", func(t *testing.T) {
		again, err := f.Descriptors()
		require.NoError(t, err)
		assert.NotSame(t, descs[0], again[0])
	})
}

func TestBodyStopsAtFirstFailure(t *testing.T) {
	f, err := Parse([]byte("suite: x\ntests:\n  - name: a\n    steps:\n      - fail: first\n      - fail: second"), "")
	require.NoError(t, err)

	descs, err := f.Descriptors()
	require.NoError(t, err)
	err = descs[0].Body(attemptT(1))
	require.Error(t, err)
	assert.Equal(t, "first", err.Error())
}

func TestBodyHonorsCancelledContext(t *testing.T) {
	f, err := Parse([]byte("suite: x\ntests:\n  - name: a\n    steps:\n      - log: never"), "")
	require.NoError(t, err)
	descs, err := f.Descriptors()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = descs[0].Body(suite.NewT(ctx, "a", 1, nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "checkout.suite.yaml", checkoutSuite)

	p, err := NewProvider(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"checkout"}, p.Suites())

	got, ok := p.Path("checkout")
	assert.True(t, ok)
	assert.Equal(t, path, got)

	descs, err := p.Discover("checkout")
	require.NoError(t, err)
	assert.Len(t, descs, 3)

	byPath, err := p.Discover(path)
	require.NoError(t, err)
	assert.Len(t, byPath, 3)

	_, err = p.Discover("missing")
	assert.ErrorIs(t, err, suite.ErrSuiteNotFound)
}

func TestProviderRereadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "a.suite.yaml", "suite: a\ntests:\n  - name: one\n")

	p, err := NewProvider(path)
	require.NoError(t, err)

	descs, err := p.Discover("a")
	require.NoError(t, err)
	assert.Len(t, descs, 1)

	writeSuite(t, dir, "a.suite.yaml", "suite: a\ntests:\n  - name: one\n  - name: two\n")
	descs, err = p.Discover("a")
	require.NoError(t, err)
	assert.Len(t, descs, 2)
}

func TestProviderDuplicateSuite(t *testing.T) {
	dir := t.TempDir()
	first := writeSuite(t, dir, "one.suite.yaml", "suite: same\ntests: []\n")
	second := writeSuite(t, dir, "two.suite.yaml", "suite: same\ntests: []\n")

	_, err := NewProvider(first, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined in both")
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))

	writeSuite(t, dir, "a.suite.yaml", "suite: a\ntests: []\n")
	writeSuite(t, nested, "b.suite.yml", "suite: b\ntests: []\n")
	writeSuite(t, dir, "notes.yaml", "not: a suite\n")
	explicit := writeSuite(t, dir, "custom.yaml", "suite: c\ntests: []\n")

	files, err := CollectFiles([]string{dir})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = CollectFiles([]string{explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, err = CollectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestIsSuiteFile(t *testing.T) {
	assert.True(t, IsSuiteFile("x/checkout.suite.yaml"))
	assert.True(t, IsSuiteFile("checkout.suite.yml"))
	assert.False(t, IsSuiteFile("checkout.yaml"))
	assert.False(t, IsSuiteFile("suite.yaml.bak"))
}
