// Package session provides the Session collaborator the providers read from.
//
// A Session owns three things:
//
//   - Instance variables, held in memory or in a VariableRepo so they survive
//     between processes.
//   - The scoped config: the section of the active profile in the config
//     file. Which file and which profile are themselves resolved through the
//     session's store, using the config_file and profile chains.
//   - A cfgchain.ConfigValueStore built from a mapping over a factory bound
//     to the session.
//
// # Usage
//
//	s := session.New(session.WithProfile("dev"))
//
//	region, ok, err := s.GetConfigVariable(ctx, cfgchain.Region)
//
// Parsed config files are cached per path. Watch keeps the cache fresh while
// a long-running process is up:
//
//	go func() {
//		if err := s.Watch(ctx); err != nil {
//			slog.Error("config file watch stopped", "error", err)
//		}
//	}()
package session
