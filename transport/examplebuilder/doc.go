// Package examplebuilder demonstrates the "one builder per endpoint"
// collaborator spec.md §1 names as out-of-scope: given a request
// object, it produces the URI and Route the ratelimit core pairs with
// a header-returning continuation (spec §1's "pairing of route
// identifier and a header-returning continuation").
//
// Grounded on github.com/switchupcb/disgo's wrapper/requests.go
// (qsEncoder / EndpointQueryString), generalized from disgo's full
// generated resource/request model down to one illustrative endpoint.
package examplebuilder
