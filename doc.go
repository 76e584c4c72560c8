// Package cfgchain resolves logical configuration names through an ordered
// chain of value sources.
//
// A logical name such as "region" is stable across sources: it may come from
// an in-process instance variable, one of several environment variables, a
// key in the active profile of a config file, or a built-in default. The
// first source that yields a value wins.
//
// # Key Components
//
//   - Provider: single-source resolver returning (value, ok, err)
//   - ChainProvider: ordered providers, first present value wins, optional conversion
//   - ConfigChainFactory: builds chains in the fixed precedence
//     instance var > environment > config file > default
//   - ConfigValueStore: logical name registry with caller-set overrides
//
// # Absence
//
// "No value from this source" is reported as ok == false and is never an
// error. Errors are reserved for conversion failures and for collaborators
// (session, environment) that fail outright.
//
// # Example Usage
//
//	factory := cfgchain.NewConfigChainFactory(sess, nil)
//	store := cfgchain.NewConfigValueStore(cfgchain.DefaultConfigMapping(factory))
//
//	region, ok, err := store.GetConfigVariable(ctx, cfgchain.Region)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Overrides win over every source, even when falsy
//	store.SetConfigVariable(cfgchain.Region, "")
//
// See the session package for a Session backed by a profile file and the
// database packages for persistent instance variables.
package cfgchain
