// Package model holds the wire and domain types shared by the API server
// and the storefront client.
//
// Importing the package sets decimal.MarshalJSONWithoutQuotes, a
// process-wide switch in github.com/shopspring/decimal, so every
// decimal.Decimal the process marshals is written as a JSON number rather
// than a quoted string. Both binaries import this package and rely on it.
// Decoding accepts either form regardless of the switch.
package model
