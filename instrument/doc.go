// Package instrument provides observability wrappers for change tokens.
//
// Metrics wraps a token with Prometheus counters for registrations and
// notify passes; Traced wraps a token so each notify pass runs inside an
// OpenTelemetry span. Both wrappers satisfy the Token contract and forward
// the producer side to the wrapped token, so instrumentation can be layered
// without changing either the producer or the consumers:
//
//	token := instrument.Metrics(changetoken.NewToken(),
//	    instrument.WithNamespace("myapp"),
//	)
//	reg := token.Register(onChange, nil)
//	defer reg.Release()
//	token.Notify()
package instrument
