// Package amalgam provides typed helpers over the Amalgam runtime.
//
// The runtime itself lives in package host; this package converts Go values
// to and from the JSON that labels take and return:
//
//	rt, err := host.NewRuntime(ctx)
//	...
//	if _, err := rt.LoadEntity(ctx, "model", "model.amlg"); err != nil { ... }
//	sum, err := amalgam.Execute[int](ctx, rt, "model", "add", map[string]int{"a": 1, "b": 2})
package amalgam
