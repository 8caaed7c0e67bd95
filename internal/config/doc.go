// Package config loads and validates the sandpool-ctl configuration.
//
// Configuration lives in a single TOML file (default
// /etc/sandpool/sandpool.toml):
//
//	state_dir = "/var/lib/sandpool"
//
//	[store]
//	repo = "acme/platform"
//	token_env = "SANDPOOL_GITHUB_TOKEN"
//
//	[provisioner]
//	command = "sfp"
//	devhub = "devhub@acme.com"
//	activate_command = "node scripts/toggle-users.js"
//
//	[[pools]]
//	pool = "qa"
//	branch = "main"
//	count = 3
//	source = "production"
//	users_to_be_activated = ["ci.bot", "qa.runner"]
//
// Pool definitions are declarative targets: they describe the desired
// steady-state population per pool+branch group and are never persisted
// to the record store.
package config
