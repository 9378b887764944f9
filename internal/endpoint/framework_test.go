package endpoint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	mgmt "github.com/axondata/go-mgmtbridge"
	"github.com/axondata/go-mgmtbridge/internal/framework"
)

// failingRuntime fails the configured bundle IDs and locations
type failingRuntime struct {
	*framework.Memory
	failIDs  map[int64]error
	failLocs map[string]error
	calls    []int64
}

func (r *failingRuntime) Install(ctx context.Context, location string) (int64, error) {
	if err, ok := r.failLocs[location]; ok {
		return 0, err
	}
	return r.Memory.Install(ctx, location)
}

func (r *failingRuntime) Start(ctx context.Context, id int64) error {
	r.calls = append(r.calls, id)
	if err, ok := r.failIDs[id]; ok {
		return err
	}
	return r.Memory.Start(ctx, id)
}

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func installAll(t *testing.T, rt framework.Runtime, locations ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(locations))
	for _, loc := range locations {
		id, err := rt.Install(context.Background(), loc)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestStartBundlesAllSucceed(t *testing.T) {
	rt := framework.NewMemory()
	ids := installAll(t, rt, "file:a.jar", "file:b.jar", "file:c.jar")
	fw := NewFramework(rt, nil)

	rec := fw.StartBundles(context.Background(), ids)

	assert.Equal(t, mgmt.Record{
		mgmt.FieldRemaining:     []any{},
		mgmt.FieldCompleted:     []any{int64(1), int64(2), int64(3)},
		mgmt.FieldBundleInError: int64(0),
		mgmt.FieldError:         nil,
		mgmt.FieldSuccess:       true,
	}, rec)
}

func TestStartBundlesStopsAtFirstFailure(t *testing.T) {
	rt := &failingRuntime{
		Memory:  framework.NewMemory(),
		failIDs: map[int64]error{2: errors.New("bundle 2 has unresolved imports")},
	}
	ids := installAll(t, rt, "file:a.jar", "file:b.jar", "file:c.jar")
	log, logs := newObserved()
	fw := NewFramework(rt, log)

	rec := fw.StartBundles(context.Background(), ids)

	assert.Equal(t, mgmt.Record{
		mgmt.FieldRemaining:     []any{int64(3)},
		mgmt.FieldCompleted:     []any{int64(1)},
		mgmt.FieldBundleInError: int64(2),
		mgmt.FieldError:         "bundle 2 has unresolved imports",
		mgmt.FieldSuccess:       false,
	}, rec)
	assert.Equal(t, []int64{1, 2}, rt.calls, "bundle 3 must never be attempted")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "batch action failed", entry.Message)
	assert.Equal(t, "startBundles", entry.ContextMap()["op"])
	assert.Equal(t, int64(2), entry.ContextMap()["bundle"])
}

func TestStopUpdateUninstallBundles(t *testing.T) {
	ctx := context.Background()
	rt := framework.NewMemory()
	ids := installAll(t, rt, "file:a.jar", "file:b.jar")
	fw := NewFramework(rt, nil)

	require.Equal(t, true, fw.StartBundles(ctx, ids)[mgmt.FieldSuccess])
	require.Equal(t, true, fw.StopBundles(ctx, ids)[mgmt.FieldSuccess])
	require.Equal(t, true, fw.UpdateBundles(ctx, ids)[mgmt.FieldSuccess])

	rec := fw.UninstallBundles(ctx, []int64{ids[0], 99, ids[1]})
	assert.Equal(t, []any{ids[0]}, rec[mgmt.FieldCompleted])
	assert.Equal(t, int64(99), rec[mgmt.FieldBundleInError])
	assert.Equal(t, []any{ids[1]}, rec[mgmt.FieldRemaining])
	assert.Contains(t, rec[mgmt.FieldError], "unknown bundle")

	bundles, err := rt.Bundles(ctx)
	require.NoError(t, err)
	assert.Len(t, bundles, 2, "system bundle and the untouched bundle remain")
}

func TestStopSystemBundleFails(t *testing.T) {
	fw := NewFramework(framework.NewMemory(), nil)

	rec := fw.StopBundles(context.Background(), []int64{framework.SystemBundleID})

	assert.Equal(t, false, rec[mgmt.FieldSuccess])
	assert.Equal(t, int64(0), rec[mgmt.FieldBundleInError])
	assert.Equal(t, []any{}, rec[mgmt.FieldCompleted])
}

func TestEmptyBatch(t *testing.T) {
	fw := NewFramework(framework.NewMemory(), nil)

	for name, rec := range map[string]mgmt.Record{
		"start":   fw.StartBundles(context.Background(), nil),
		"install": fw.InstallBundles(context.Background(), nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, true, rec[mgmt.FieldSuccess])
			assert.Equal(t, []any{}, rec[mgmt.FieldCompleted])
			assert.Equal(t, []any{}, rec[mgmt.FieldRemaining])
			assert.Nil(t, rec[mgmt.FieldError])
		})
	}
}

func TestInstallBundles(t *testing.T) {
	rt := &failingRuntime{
		Memory:   framework.NewMemory(),
		failLocs: map[string]error{"file:broken.jar": errors.New("invalid manifest")},
	}
	fw := NewFramework(rt, nil)

	rec := fw.InstallBundles(context.Background(), []string{
		"file:a.jar", "file:a.jar", "file:b.jar", "file:broken.jar", "file:c.jar",
	})

	assert.Equal(t, mgmt.Record{
		mgmt.FieldRemaining:       []any{"file:c.jar"},
		mgmt.FieldCompleted:       []any{int64(1), int64(2)},
		mgmt.FieldLocationInError: "file:broken.jar",
		mgmt.FieldError:           "invalid manifest",
		mgmt.FieldSuccess:         false,
	}, rec)
	assert.NotContains(t, rec, mgmt.FieldBundleInError)
}

func TestInstallBundlesFromURL(t *testing.T) {
	ctx := context.Background()
	fw := NewFramework(framework.NewMemory(), nil)

	rec, err := fw.InstallBundlesFromURL(ctx,
		[]string{"mvn:org.example/a/1.0", "mvn:org.example/b/1.0"},
		[]string{"http://repo.example.com/a.jar", "http://repo.example.com/b.jar"})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, rec[mgmt.FieldCompleted])
	assert.Equal(t, "", rec[mgmt.FieldLocationInError])

	_, err = fw.InstallBundlesFromURL(ctx, []string{"mvn:org.example/c/1.0"}, nil)
	assert.ErrorIs(t, err, mgmt.ErrPrecondition)
	assert.Equal(t, ClassInvalidArgument, Classify(err))
}

func TestUpdateBundlesFromURL(t *testing.T) {
	ctx := context.Background()
	rt := framework.NewMemory()
	ids := installAll(t, rt, "file:a.jar", "file:b.jar")
	fw := NewFramework(rt, nil)

	rec, err := fw.UpdateBundlesFromURL(ctx, ids, []string{"file:a2.jar", "not-a-url"})
	require.NoError(t, err)
	assert.Equal(t, []any{ids[0]}, rec[mgmt.FieldCompleted])
	assert.Equal(t, ids[1], rec[mgmt.FieldBundleInError])
	assert.Equal(t, false, rec[mgmt.FieldSuccess])

	_, err = fw.UpdateBundlesFromURL(ctx, ids, []string{"file:a2.jar"})
	assert.ErrorIs(t, err, mgmt.ErrPrecondition)
}

func TestSetBundleStartLevels(t *testing.T) {
	ctx := context.Background()
	rt := framework.NewMemory()
	ids := installAll(t, rt, "file:a.jar", "file:b.jar")
	fw := NewFramework(rt, nil)

	rec, err := fw.SetBundleStartLevels(ctx, ids, []int32{4, 5})
	require.NoError(t, err)
	assert.Equal(t, true, rec[mgmt.FieldSuccess])

	bundles, err := rt.Bundles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(4), bundles[1].StartLevel)
	assert.Equal(t, int32(5), bundles[2].StartLevel)

	_, err = fw.SetBundleStartLevels(ctx, ids, []int32{1, 2, 3})
	assert.ErrorIs(t, err, mgmt.ErrPrecondition)
}

func TestRefreshResolveAndList(t *testing.T) {
	ctx := context.Background()
	rt := framework.NewMemory()
	ids := installAll(t, rt, "file:a.jar")
	fw := NewFramework(rt, nil)

	ok, err := fw.ResolveBundles(ctx, ids)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, fw.RefreshBundles(ctx, nil))

	err = fw.RefreshBundles(ctx, []int64{42})
	assert.Equal(t, ClassNotFound, Classify(err))

	list, err := fw.ListBundles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, mgmt.Record{
		"Identifier": ids[0],
		"Location":   "file:a.jar",
		"State":      "resolved",
		"StartLevel": int32(1),
	}, list[1])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"unsupported type", mgmt.ErrUnsupportedType, ClassInvalidArgument},
		{"deserialization", &mgmt.CodecError{Op: mgmt.OpDecode, Err: mgmt.ErrDeserialization}, ClassInvalidArgument},
		{"unknown bundle", &framework.BundleError{Op: "start", ID: 7, Err: framework.ErrUnknownBundle}, ClassNotFound},
		{"invalid location", framework.ErrInvalidLocation, ClassInvalidArgument},
		{"io", errors.New("disk full"), ClassInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
			assert.NotEmpty(t, tt.want.String())
		})
	}
}
