// Package api defines the request and response messages of the splitledger
// RPC services. Messages are plain structs carried as JSON by the codec in
// package apiconnect; amounts are decimal strings.
package api
