// Package config loads the settings of an import run.
//
// Cluster credentials come from the QUMULO_* environment variables, which
// may be seeded from a .env file. An optional YAML file supplies the same
// settings plus the feature selection, terraform options and the upload
// target. Environment values win over the file; defaults fill the rest.
package config
