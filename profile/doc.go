// Package profile reads and writes the profile file: a YAML document holding
// named sections of key/value settings.
//
// # File Format
//
//	profiles:
//	  default:
//	    region: us-east-1
//	    metadata_service_timeout: 2
//	  dev:
//	    region: eu-west-1
//	    api_versions:
//	      ec2: "2016-11-15"
//
// The session package reads the section of the active profile and hands it to
// the config property stage of each chain.
//
// # Usage
//
//	f, err := profile.Load(profile.ExpandHome("~/.aws/config"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	section, ok := f.Section("dev")
//
// Edits are made in memory and written back with Save:
//
//	f.Set("dev", "region", "eu-central-1")
//	if err := f.Save(path); err != nil {
//		log.Fatal(err)
//	}
package profile
