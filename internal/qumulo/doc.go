// Package qumulo provides a read-only client for the Qumulo Core REST API.
//
// The client authenticates once with a username and password, then issues
// bearer-token GET requests against the settings endpoints needed to export
// a cluster's configuration. Responses decode into the plain structs in
// types.go; nothing is cached and no request is retried.
package qumulo
