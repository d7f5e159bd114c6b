// Copyright 2026 The SciDataContainer Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the sdc user configuration from YAML.
//
// Configuration comes from a single file named by either the
// SDC_CONFIG environment variable (via [Load]) or the --config flag
// (via [LoadFile]). There is no discovery of files in well-known
// locations. When neither is given, callers use [Default].
//
// Every string field undergoes ${VAR} and ${VAR:-default} expansion
// after loading, so that API keys can be kept in the environment
// instead of the file.
//
// Key exports:
//
//   - [Config] -- author and email defaults, remote server, local store
//   - [Default] -- empty identity, default store directory
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other sdc packages.
package config
