// Package idset is the composition root of idset.
//
// idset records short alphanumeric codes ("IDs" such as AB1234) in named,
// independently persisted databases and answers whether a code has been seen
// before. Raw input is admitted through a small grammar (letters, an optional
// separator, digits) and stored in canonical form.
//
// Storage is pluggable: the default backend keeps each database in a compact
// binary file rewritten atomically on every change; the sqlite backend keeps
// it in an embedded SQLite database.
//
// Usage:
//
//	svc, reg, err := idset.New("./data", idset.WithBackend("sqlite"))
//	if err != nil {
//		return err
//	}
//	defer reg.Close()
//
//	if err := svc.PerformAdd(ctx, "AB1234 cd-5678"); err != nil {
//		return err
//	}
//	fmt.Println(svc.Status(), svc.LastResult().Success)
package idset
