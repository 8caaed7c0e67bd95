// Package testutil provides a wired test environment for command and
// integration tests.
//
// NewTestEnv builds an app.App whose collaborators are all test
// doubles: an in-memory record store, a mock provisioner, a mock
// notifier, and a fake clock, with the audit trail rooted in a temp
// directory. The environment is installed as the app default for the
// duration of the test.
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
//
//	env.AddCISandbox("QA", "MAIN", "100000001", record.StatusAvailable)
//	// run commands, then inspect env.Store / env.Notifier / env.Provisioner
package testutil
