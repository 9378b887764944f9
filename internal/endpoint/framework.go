// Package endpoint exposes the framework runtime and the configuration
// store as management operations that return transport-neutral records.
package endpoint

import (
	"context"

	"go.uber.org/zap"

	mgmt "github.com/axondata/go-mgmtbridge"
	"github.com/axondata/go-mgmtbridge/internal/framework"
)

// Framework runs batch lifecycle operations against a Runtime
type Framework struct {
	rt  framework.Runtime
	log *zap.Logger
}

// NewFramework creates a Framework endpoint over rt
func NewFramework(rt framework.Runtime, log *zap.Logger) *Framework {
	if log == nil {
		log = zap.NewNop()
	}
	return &Framework{rt: rt, log: log}
}

// InstallBundles installs each distinct location in order. The completed
// column holds the IDs of the installed bundles.
func (f *Framework) InstallBundles(ctx context.Context, locations []string) mgmt.Record {
	ids := make([]int64, 0, len(locations))
	res := mgmt.Execute(mgmt.Distinct(locations), func(loc string) error {
		id, err := f.rt.Install(ctx, loc)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	f.logFailure("installBundles", res.Success, zap.String("location", res.ErrorTarget), res.ErrorDetail)
	return installRecord(res, ids)
}

// InstallBundlesFromURL installs each location from its paired URL
func (f *Framework) InstallBundlesFromURL(ctx context.Context, locations, urls []string) (mgmt.Record, error) {
	ids := make([]int64, 0, len(locations))
	res, err := mgmt.ExecutePaired(locations, urls, func(loc, url string) error {
		id, err := f.rt.InstallFrom(ctx, loc, url)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.logFailure("installBundlesFromURL", res.Success, zap.String("location", res.ErrorTarget), res.ErrorDetail)
	return installRecord(res, ids), nil
}

// StartBundles starts each bundle in order
func (f *Framework) StartBundles(ctx context.Context, ids []int64) mgmt.Record {
	return f.each(ctx, "startBundles", ids, f.rt.Start)
}

// StopBundles stops each bundle in order
func (f *Framework) StopBundles(ctx context.Context, ids []int64) mgmt.Record {
	return f.each(ctx, "stopBundles", ids, f.rt.Stop)
}

// UpdateBundles updates each bundle from its own location
func (f *Framework) UpdateBundles(ctx context.Context, ids []int64) mgmt.Record {
	return f.each(ctx, "updateBundles", ids, f.rt.Update)
}

// UninstallBundles uninstalls each bundle in order
func (f *Framework) UninstallBundles(ctx context.Context, ids []int64) mgmt.Record {
	return f.each(ctx, "uninstallBundles", ids, f.rt.Uninstall)
}

// UpdateBundlesFromURL updates each bundle from its paired URL
func (f *Framework) UpdateBundlesFromURL(ctx context.Context, ids []int64, urls []string) (mgmt.Record, error) {
	res, err := mgmt.ExecutePaired(ids, urls, func(id int64, url string) error {
		return f.rt.UpdateFrom(ctx, id, url)
	})
	if err != nil {
		return nil, err
	}
	f.logFailure("updateBundlesFromURL", res.Success, zap.Int64("bundle", res.ErrorTarget), res.ErrorDetail)
	return res.Record(mgmt.FieldBundleInError), nil
}

// SetBundleStartLevels sets each bundle's paired start level
func (f *Framework) SetBundleStartLevels(ctx context.Context, ids []int64, levels []int32) (mgmt.Record, error) {
	res, err := mgmt.ExecutePaired(ids, levels, func(id int64, level int32) error {
		return f.rt.SetStartLevel(ctx, id, level)
	})
	if err != nil {
		return nil, err
	}
	f.logFailure("setBundleStartLevels", res.Success, zap.Int64("bundle", res.ErrorTarget), res.ErrorDetail)
	return res.Record(mgmt.FieldBundleInError), nil
}

// RefreshBundles re-resolves the given bundles as one operation
func (f *Framework) RefreshBundles(ctx context.Context, ids []int64) error {
	if err := f.rt.Refresh(ctx, ids); err != nil {
		f.log.Warn("refreshBundles failed", zap.Int64s("bundles", ids), zap.Error(err))
		return err
	}
	return nil
}

// ResolveBundles resolves the given bundles as one operation
func (f *Framework) ResolveBundles(ctx context.Context, ids []int64) (bool, error) {
	ok, err := f.rt.Resolve(ctx, ids)
	if err != nil {
		f.log.Warn("resolveBundles failed", zap.Int64s("bundles", ids), zap.Error(err))
		return false, err
	}
	return ok, nil
}

// ListBundles returns one record per installed bundle
func (f *Framework) ListBundles(ctx context.Context) ([]mgmt.Record, error) {
	bundles, err := f.rt.Bundles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]mgmt.Record, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, mgmt.Record{
			"Identifier": b.ID,
			"Location":   b.Location,
			"State":      b.State.String(),
			"StartLevel": b.StartLevel,
		})
	}
	return out, nil
}

func (f *Framework) each(ctx context.Context, op string, ids []int64, action func(context.Context, int64) error) mgmt.Record {
	res := mgmt.Execute(ids, func(id int64) error {
		return action(ctx, id)
	})
	f.logFailure(op, res.Success, zap.Int64("bundle", res.ErrorTarget), res.ErrorDetail)
	return res.Record(mgmt.FieldBundleInError)
}

func (f *Framework) logFailure(op string, success bool, target zap.Field, detail string) {
	if success {
		return
	}
	f.log.Warn("batch action failed", zap.String("op", op), target, zap.String("error", detail))
}

func installRecord(res mgmt.BatchResult[string], ids []int64) mgmt.Record {
	rec := res.Record(mgmt.FieldLocationInError)
	rec[mgmt.FieldCompleted] = mgmt.List(ids)
	return rec
}
