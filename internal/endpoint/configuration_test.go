package endpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	mgmt "github.com/axondata/go-mgmtbridge"
	"github.com/axondata/go-mgmtbridge/internal/store"
)

// ConfigurationTestSuite runs the endpoint against a real store
type ConfigurationTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *store.Store
	cfg   *Configuration
}

func TestConfiguration(t *testing.T) {
	suite.Run(t, new(ConfigurationTestSuite))
}

func (s *ConfigurationTestSuite) SetupTest() {
	s.ctx = context.Background()
	st, err := store.Open(s.T().TempDir(), nil)
	s.Require().NoError(err)
	s.store = st
	s.cfg = NewConfiguration(st, zaptest.NewLogger(s.T()))
}

func (s *ConfigurationTestSuite) TestUpdateStoresCanonicalRows() {
	err := s.cfg.Update(s.ctx, "org.example.http", []mgmt.Property{
		{Key: "timeout", Type: "Double", Value: "1.50"},
		{Key: "port", Type: "Integer", Value: "8080"},
		{Key: "hosts", Type: "Vector of String", Value: `"a, b",c`},
	})
	s.Require().NoError(err)

	rows, err := s.cfg.GetProperties(s.ctx, "org.example.http")
	s.Require().NoError(err)
	s.Equal([]mgmt.Property{
		{Key: "hosts", Type: "Vector of String", Value: `"a, b","c"`},
		{Key: "port", Type: "Integer", Value: "8080"},
		{Key: "timeout", Type: "Double", Value: "1.5"},
	}, rows)

	props, err := s.cfg.Properties(s.ctx, "org.example.http")
	s.Require().NoError(err)
	s.Equal(int32(8080), props["port"])
	s.Equal(mgmt.Vector{"a, b", "c"}, props["hosts"])
}

func (s *ConfigurationTestSuite) TestUpdateRejectsBadRow() {
	err := s.cfg.Update(s.ctx, "pid", []mgmt.Property{
		{Key: "port", Type: "Integer", Value: "8080"},
		{Key: "enabled", Type: "Boolean", Value: "maybe"},
	})
	s.Require().Error(err)
	s.ErrorIs(err, mgmt.ErrDeserialization)
	s.Equal(ClassInvalidArgument, Classify(err))

	_, err = s.cfg.GetProperties(s.ctx, "pid")
	s.Equal(ClassNotFound, Classify(err), "a rejected update stores nothing")

	err = s.cfg.Update(s.ctx, "pid", []mgmt.Property{{Key: "k", Type: "Object", Value: "x"}})
	s.ErrorIs(err, mgmt.ErrUnsupportedType)
}

func (s *ConfigurationTestSuite) TestPropertiesSkipsUndecodableRows() {
	s.Require().NoError(s.store.Put("legacy", []mgmt.Property{
		{Key: "good", Type: "Long", Value: "7"},
		{Key: "bad", Type: "Long", Value: "seven"},
	}))

	props, err := s.cfg.Properties(s.ctx, "legacy")
	s.Require().NoError(err)
	s.Equal(map[string]any{"good": int64(7)}, props)
}

func (s *ConfigurationTestSuite) TestDeleteAndList() {
	s.Require().NoError(s.cfg.Update(s.ctx, "b", nil))
	s.Require().NoError(s.cfg.Update(s.ctx, "a", nil))
	s.Equal([]string{"a", "b"}, s.cfg.ListConfigurations(s.ctx))

	s.Require().NoError(s.cfg.Delete(s.ctx, "a"))
	s.Equal([]string{"b"}, s.cfg.ListConfigurations(s.ctx))

	err := s.cfg.Delete(s.ctx, "a")
	s.Equal(ClassNotFound, Classify(err))
}

func (s *ConfigurationTestSuite) TestInvalidPID() {
	err := s.cfg.Update(s.ctx, "../escape", nil)
	require.Error(s.T(), err)
	s.Equal(ClassInvalidArgument, Classify(err))
}
