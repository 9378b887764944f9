package endpoint

import (
	"context"

	"go.uber.org/zap"

	mgmt "github.com/axondata/go-mgmtbridge"
)

// ConfigStore is the persistence the Configuration endpoint needs
type ConfigStore interface {
	Get(pid string) ([]mgmt.Property, error)
	Put(pid string, rows []mgmt.Property) error
	Delete(pid string) error
	List() []string
}

// Configuration manages configurations as property tables
type Configuration struct {
	store ConfigStore
	log   *zap.Logger
}

// NewConfiguration creates a Configuration endpoint over store
func NewConfiguration(store ConfigStore, log *zap.Logger) *Configuration {
	if log == nil {
		log = zap.NewNop()
	}
	return &Configuration{store: store, log: log}
}

// GetProperties returns the property table stored under pid
func (c *Configuration) GetProperties(_ context.Context, pid string) ([]mgmt.Property, error) {
	return c.store.Get(pid)
}

// Properties returns the typed properties stored under pid. Rows that no
// longer decode are left out.
func (c *Configuration) Properties(_ context.Context, pid string) (map[string]any, error) {
	rows, err := c.store.Get(pid)
	if err != nil {
		return nil, err
	}
	props, _ := mgmt.DecodeProperties(rows, mgmt.RowSkipInvalid)
	if len(props) != len(rows) {
		c.log.Warn("dropped undecodable properties",
			zap.String("pid", pid), zap.Int("rows", len(rows)), zap.Int("kept", len(props)))
	}
	return props, nil
}

// Update replaces the configuration under pid. Every row must decode;
// the stored table is the canonical re-encoding of the decoded values.
func (c *Configuration) Update(_ context.Context, pid string, rows []mgmt.Property) error {
	props, err := mgmt.DecodeProperties(rows, mgmt.RowStrict)
	if err != nil {
		return err
	}
	canonical, err := mgmt.EncodeProperties(props)
	if err != nil {
		return err
	}
	if err := c.store.Put(pid, canonical); err != nil {
		c.log.Warn("update configuration failed", zap.String("pid", pid), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes the configuration under pid
func (c *Configuration) Delete(_ context.Context, pid string) error {
	return c.store.Delete(pid)
}

// ListConfigurations returns the PIDs of all stored configurations
func (c *Configuration) ListConfigurations(_ context.Context) []string {
	return c.store.List()
}
