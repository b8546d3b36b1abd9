// Package statsview optionally serves runtime statistics over HTTP while the
// interpreter runs. It is only functional when built with the statsview
// build tag:
//
//	go build -tags statsview
//
// After launch, graphs are viewable at:
//
//	localhost:12600/debug/statsview
//
// and the standard Go pprof pages at:
//
//	localhost:12600/debug/pprof/
package statsview

// Address the stats server listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"
