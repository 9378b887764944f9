// Package transport serves the management endpoints over Connect, using
// structpb.Struct messages so records travel without generated types.
package transport

import (
	"sort"
)

// Service names
const (
	FrameworkServiceName     = "mgmt.v1.Framework"
	ConfigurationServiceName = "mgmt.v1.Configuration"
)

// Framework procedures
const (
	InstallBundlesProcedure        = "/" + FrameworkServiceName + "/InstallBundles"
	InstallBundlesFromURLProcedure = "/" + FrameworkServiceName + "/InstallBundlesFromURL"
	StartBundlesProcedure          = "/" + FrameworkServiceName + "/StartBundles"
	StopBundlesProcedure           = "/" + FrameworkServiceName + "/StopBundles"
	UpdateBundlesProcedure         = "/" + FrameworkServiceName + "/UpdateBundles"
	UpdateBundlesFromURLProcedure  = "/" + FrameworkServiceName + "/UpdateBundlesFromURL"
	UninstallBundlesProcedure      = "/" + FrameworkServiceName + "/UninstallBundles"
	SetBundleStartLevelsProcedure  = "/" + FrameworkServiceName + "/SetBundleStartLevels"
	RefreshBundlesProcedure        = "/" + FrameworkServiceName + "/RefreshBundles"
	ResolveBundlesProcedure        = "/" + FrameworkServiceName + "/ResolveBundles"
	ListBundlesProcedure           = "/" + FrameworkServiceName + "/ListBundles"
)

// Configuration procedures
const (
	GetPropertiesProcedure      = "/" + ConfigurationServiceName + "/GetProperties"
	UpdateProcedure             = "/" + ConfigurationServiceName + "/Update"
	DeleteProcedure             = "/" + ConfigurationServiceName + "/Delete"
	ListConfigurationsProcedure = "/" + ConfigurationServiceName + "/ListConfigurations"
)

// Request and response field names
const (
	FieldIdentifiers = "Identifiers"
	FieldLocations   = "Locations"
	FieldURLs        = "Urls"
	FieldLevels      = "Levels"
	FieldPID         = "Pid"
	FieldPIDs        = "Pids"
	FieldProperties  = "Properties"
	FieldBundles     = "Bundles"
	FieldResolved    = "Resolved"

	FieldKey   = "Key"
	FieldType  = "Type"
	FieldValue = "Value"
)

// batchProcedures maps the short batch operation names used on the
// command line to their procedures
var batchProcedures = map[string]string{
	"install":          InstallBundlesProcedure,
	"install-from-url": InstallBundlesFromURLProcedure,
	"start":            StartBundlesProcedure,
	"stop":             StopBundlesProcedure,
	"update":           UpdateBundlesProcedure,
	"update-from-url":  UpdateBundlesFromURLProcedure,
	"uninstall":        UninstallBundlesProcedure,
	"set-start-levels": SetBundleStartLevelsProcedure,
}

// BatchProcedure returns the procedure for a short batch operation name
func BatchProcedure(op string) (string, bool) {
	p, ok := batchProcedures[op]
	return p, ok
}

// BatchOps returns the short batch operation names in sorted order
func BatchOps() []string {
	ops := make([]string, 0, len(batchProcedures))
	for op := range batchProcedures {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
