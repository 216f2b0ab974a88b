// Package query binds a view to a remote collection.
//
// A Query owns an explicit Cache mapping (endpoint, key) to the State of the
// last request issued for that key. Binding a new key issues at most one
// fetch; responses are applied in issue order per key, and the rendered State
// always follows the currently bound key, so a slow response for an older key
// can never replace the data of a newer one. Close cancels everything that is
// still outstanding and freezes the query.
package query
